package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kwkoo/go-quizlive/internal"
	"github.com/kwkoo/go-quizlive/internal/common"
)

// maxUploadBytes caps quiz file uploads.
const maxUploadBytes = 1 << 20

type QuizHost interface {
	StoreQuiz(id string, quiz common.Quiz)
	GetQuiz(id string) (common.Quiz, bool)
	CreateSession(quiz common.Quiz) (*common.GameSession, error)
	GetSession(joinCode string) *common.GameSession
	DefaultTimeLimit() int
	MaxPlayers() int
}

type RestApi struct {
	hub QuizHost
}

func InitRestApi(hub QuizHost) *RestApi {
	return &RestApi{hub: hub}
}

func (api *RestApi) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "ok")
}

// UploadQuiz accepts a multipart form with the quiz text in the quiz_file
// field, parses it and stores it under a fresh quiz id.
func (api *RestApi) UploadQuiz(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload", fmt.Sprintf("could not parse multipart form: %v", err))
		return
	}
	file, _, err := r.FormFile("quiz_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload", "Expected a text file upload in the 'quiz_file' field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_upload", fmt.Sprintf("could not read upload: %v", err))
		return
	}
	if !utf8.Valid(content) {
		writeError(w, http.StatusBadRequest, "invalid_upload", "File is not valid UTF-8")
		return
	}

	quiz, parseErrs := common.ParseQuiz(string(content), api.hub.DefaultTimeLimit())
	if len(parseErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":    "invalid_quiz_file",
			"messages": parseErrs,
		})
		return
	}

	type previewEntry struct {
		Text        string `json:"text"`
		OptionCount int    `json:"option_count"`
	}
	preview := make([]previewEntry, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		preview = append(preview, previewEntry{Text: q.Text, OptionCount: q.NumOptions()})
	}

	quizID := uuid.NewString()
	api.hub.StoreQuiz(quizID, quiz)
	log.Printf("stored quiz %q with %d questions as %s", quiz.Title, quiz.NumQuestions(), quizID)

	response := map[string]interface{}{
		"title":          quiz.Title,
		"question_count": quiz.NumQuestions(),
		"preview":        preview,
		"quiz_id":        quizID,
	}
	if quiz.NumQuestions() > 100 {
		response["warning"] = "Quiz has more than 100 questions. This may result in very long game sessions."
	}
	writeJSON(w, http.StatusOK, response)
}

// CreateSession opens a lobby for a previously uploaded quiz.
func (api *RestApi) CreateSession(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req struct {
		QuizID string `json:"quiz_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "could not decode request body", http.StatusBadRequest)
		return
	}

	quiz, ok := api.hub.GetQuiz(req.QuizID)
	if !ok {
		writeError(w, http.StatusNotFound, "quiz_not_found", "No uploaded quiz found with the given ID. Please re-upload.")
		return
	}

	session, err := api.hub.CreateSession(quiz)
	if err != nil {
		if errors.Is(err, internal.ErrMaxSessionsReached) {
			writeError(w, http.StatusConflict, "max_sessions_reached", "Maximum number of concurrent game sessions reached. Please try again later.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	session.RLock()
	joinCode := session.JoinCode
	status := session.Status
	session.RUnlock()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"join_code":      joinCode,
		"session_status": status,
		"ws_url":         "/ws/host/" + joinCode,
	})
}

// GetSession tells a prospective player whether a session can still be
// joined.
func (api *RestApi) GetSession(w http.ResponseWriter, r *http.Request) {
	joinCode := strings.ToUpper(mux.Vars(r)["join_code"])
	session := api.hub.GetSession(joinCode)
	if session == nil {
		writeError(w, http.StatusNotFound, "session_not_found", "No active game session found with that code.")
		return
	}

	session.RLock()
	joinable := session.IsJoinable()
	full := session.ConnectedPlayerCount() >= api.hub.MaxPlayers()
	status := session.Status
	playerCount := session.ConnectedPlayerCount()
	title := session.Quiz.Title
	session.RUnlock()

	if !joinable {
		writeError(w, http.StatusConflict, "session_not_joinable", "This game has already started and is no longer accepting new players.")
		return
	}
	if full {
		writeError(w, http.StatusConflict, "session_full", "This game session is full.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"join_code":      joinCode,
		"session_status": status,
		"player_count":   playerCount,
		"quiz_title":     title,
		"ws_url":         "/ws/player/" + joinCode,
	})
}

// CORS allows any origin, mirroring the permissive policy of the rest of
// the surface.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("error encoding response body: %v", err)
	}
}
