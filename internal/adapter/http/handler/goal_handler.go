package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesho254/SavingsModule/internal/adapter/http/dto"
	"github.com/mesho254/SavingsModule/internal/usecase"
)

// GoalHandler handles savings goal HTTP requests.
type GoalHandler struct {
	goalUC *usecase.GoalUseCase
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalUC *usecase.GoalUseCase) *GoalHandler {
	return &GoalHandler{goalUC: goalUC}
}

// Create creates a new savings goal for the authenticated user.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	goal, err := h.goalUC.CreateGoal(r.Context(), req.ToUseCaseInput(user.ID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create goal", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.GoalFromDomain(goal))
}

// Get retrieves a goal by ID.
func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing goal ID", "")
		return
	}

	goal, err := h.goalUC.GetGoal(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get goal", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.GoalFromDomain(goal))
}

// List lists the authenticated user's goals.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	goals, err := h.goalUC.ListGoals(r.Context(), usecase.ListGoalsInput{
		OwnerID: user.ID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list goals", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.GoalsFromDomain(goals))
}
