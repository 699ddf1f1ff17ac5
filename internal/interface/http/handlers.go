package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Darkprophet2323/thriveremote-hub/internal/application/command"
	"github.com/Darkprophet2323/thriveremote-hub/internal/application/query"
	"github.com/Darkprophet2323/thriveremote-hub/internal/application/saga"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/credential"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/progression"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/session"
	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/user"
	"github.com/Darkprophet2323/thriveremote-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION RESOLUTION
// ══════════════════════════════════════════════════════════════════════════════

const contextKeyUserID contextKey = "user_id"

// extractToken pulls the session token from the Authorization header
// ("Bearer <token>") or the X-Session-Token header.
func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-Session-Token"))
}

// withUser resolves the request to a user ID and injects it into the
// request context. A missing token falls back to the shared guest
// account; a token that does not resolve is a hard 404, never guest.
func (s *Server) withUser(next func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)

		if token == "" {
			guest, err := s.deps.ProvisionGuestHandler.Handle(r.Context())
			if err != nil {
				s.logger.Error("guest provisioning failed", logger.Err(err))
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Could not provision guest session")
				return
			}
			r = r.WithContext(contextWithUserID(r, guest.ID))
			next(w, r)
			return
		}

		sess, err := s.deps.Sessions.Resolve(r.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				writeJSONError(w, http.StatusNotFound, "session_not_found", "Session not found")
				return
			}
			s.logger.Error("session resolution failed", logger.Err(err))
			writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Could not resolve session")
			return
		}

		r = r.WithContext(contextWithUserID(r, sess.UserID))
		next(w, r)
	})
}

func contextWithUserID(r *http.Request, userID string) context.Context {
	return context.WithValue(r.Context(), contextKeyUserID, userID)
}

// requestUserID returns the resolved user ID from the request context.
func requestUserID(r *http.Request) string {
	if id, ok := r.Context().Value(contextKeyUserID).(string); ok {
		return id
	}
	return ""
}

// writeCommandError maps application errors to HTTP status codes.
func (s *Server) writeCommandError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		writeJSONError(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, user.ErrUserAlreadyExists):
		writeJSONError(w, http.StatusConflict, "user_exists", "Username is already taken")
	case errors.Is(err, credential.ErrInvalidCredential):
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	case errors.Is(err, user.ErrInvalidUsername),
		errors.Is(err, user.ErrInvalidPassword),
		errors.Is(err, user.ErrInvalidSavings),
		errors.Is(err, user.ErrInvalidScore),
		errors.Is(err, progression.ErrUnknownAction):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, relocate.ErrDatasetUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, "relocation_unavailable", "Relocation data is temporarily unavailable")
	default:
		s.logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"healthy": true})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil && !s.deps.HealthChecker.Check(r.Context()).Ready {
		writeJSONError(w, http.StatusServiceUnavailable, "not_ready", "Service is not ready")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ready": true})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"alive": true})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "thriveremote-hub",
		"status":  "running",
		"uptime":  s.Uptime().String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type sessionResponse struct {
	Token string                `json:"token"`
	User  *query.UserProfileDTO `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterUserHandler.Handle(r.Context(), command.RegisterUserCommand{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Token: result.Session.Token,
		User:  query.NewUserProfileDTO(result.User),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AuthenticateHandler.Handle(r.Context(), command.AuthenticateCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Token: result.Session.Token,
		User:  query.NewUserProfileDTO(result.User),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Logout is idempotent: an absent or unknown token still succeeds.
	_, err := s.deps.EndSessionHandler.Handle(r.Context(), command.EndSessionCommand{
		Token: extractToken(r),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE & DASHBOARD HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.deps.GetUserProfileHandler.Handle(r.Context(), query.GetUserProfileQuery{
		UserID: requestUserID(r),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.GetDashboardStatsHandler.Handle(r.Context(), query.GetDashboardStatsQuery{
		UserID: requestUserID(r),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.GetAchievementsHandler.Handle(r.Context(), query.GetAchievementsQuery{
		UserID:       requestUserID(r),
		OnlyUnlocked: getQueryParamBool(r, "unlocked"),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.deps.GetLedgerHistoryHandler.Handle(r.Context(), query.GetLedgerHistoryQuery{
		UserID: requestUserID(r),
		Limit:  getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	feed, err := s.deps.GetNotificationsHandler.Handle(r.Context(), query.GetNotificationsQuery{
		UserID: requestUserID(r),
		Limit:  getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESSION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.RecordActivityHandler.Handle(r.Context(), command.RecordActivityCommand{
		UserID: requestUserID(r),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"streak":         result.User.DailyStreak,
		"total_sessions": result.User.TotalSessions,
		"extended":       result.Streak.Extended,
	})
}

type taskRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	s.handleTask(w, r, progression.ActionTaskCreated)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	s.handleTask(w, r, progression.ActionTaskCompleted)
}

func (s *Server) handleImportTasks(w http.ResponseWriter, r *http.Request) {
	s.handleTask(w, r, progression.ActionTasksImported)
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request, action progression.Action) {
	var req taskRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.TrackTaskHandler.Handle(r.Context(), command.TrackTaskCommand{
		UserID:    requestUserID(r),
		Action:    action,
		TaskTitle: req.Title,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse(result.PointsEarned, int(result.User.ProductivityScore), result.Achievements))
}

type applyJobRequest struct {
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
}

func (s *Server) handleApplyJob(w http.ResponseWriter, r *http.Request) {
	var req applyJobRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SubmitApplicationHandler.Handle(r.Context(), command.SubmitApplicationCommand{
		UserID:   requestUserID(r),
		JobTitle: req.JobTitle,
		Company:  req.Company,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse(result.PointsEarned, int(result.User.ProductivityScore), result.Achievements))
}

func (s *Server) handleRefreshJobs(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.RefreshJobsHandler.Handle(r.Context(), command.RefreshJobsCommand{
		UserID:    requestUserID(r),
		JobsFound: getQueryParamInt(r, "count", 0),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse(result.PointsEarned, int(result.User.ProductivityScore), nil))
}

type savingsRequest struct {
	Amount float64 `json:"amount"`
	Goal   float64 `json:"goal"`
}

func (s *Server) handleUpdateSavings(w http.ResponseWriter, r *http.Request) {
	var req savingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateSavingsHandler.Handle(r.Context(), command.UpdateSavingsCommand{
		UserID: requestUserID(r),
		Amount: req.Amount,
		Goal:   req.Goal,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	resp := progressionResponse(result.PointsEarned, int(result.User.ProductivityScore), result.Achievements)
	resp["savings_percent"] = result.SavingsPercent
	writeJSON(w, http.StatusOK, resp)
}

type terminalRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleTerminalCommand(w http.ResponseWriter, r *http.Request) {
	var req terminalRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordTerminalHandler.Handle(r.Context(), command.RecordTerminalCommand{
		UserID:      requestUserID(r),
		CommandName: req.Command,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse(result.PointsEarned, int(result.User.ProductivityScore), result.Achievements))
}

type easterEggRequest struct {
	Egg    string `json:"egg"`
	Konami bool   `json:"konami"`
}

func (s *Server) handleEasterEgg(w http.ResponseWriter, r *http.Request) {
	var req easterEggRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordEasterEggHandler.Handle(r.Context(), command.RecordEasterEggCommand{
		UserID:  requestUserID(r),
		EggName: req.Egg,
		Konami:  req.Konami,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressionResponse(result.PointsEarned, int(result.User.ProductivityScore), result.Achievements))
}

type pongScoreRequest struct {
	Score int `json:"score"`
}

func (s *Server) handlePongScore(w http.ResponseWriter, r *http.Request) {
	var req pongScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordPongScoreHandler.Handle(r.Context(), command.RecordPongScoreCommand{
		UserID: requestUserID(r),
		Score:  req.Score,
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	resp := progressionResponse(result.PointsEarned, int(result.User.ProductivityScore), result.Achievements)
	resp["new_record"] = result.NewRecord
	resp["high_score"] = result.HighScore
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRelocation(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ViewRelocationHandler.Handle(r.Context(), command.ViewRelocationCommand{
		UserID: requestUserID(r),
	})
	if err != nil {
		s.writeCommandError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dataset":    result.Dataset,
		"first_view": result.FirstView,
		"unlocked":   unlockedTitles(result.Achievements),
	})
}

// progressionResponse builds the common response body for scoring endpoints.
func progressionResponse(points, total int, achievements *saga.AchievementFlowResult) map[string]interface{} {
	return map[string]interface{}{
		"points_earned": points,
		"total_score":   total,
		"unlocked":      unlockedTitles(achievements),
	}
}

func unlockedTitles(result *saga.AchievementFlowResult) []string {
	if result == nil {
		return nil
	}
	titles := make([]string, 0, len(result.Unlocked))
	for _, u := range result.Unlocked {
		titles = append(titles, u.Definition.Title)
	}
	return titles
}
