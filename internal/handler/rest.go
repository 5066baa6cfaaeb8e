package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/avelichko/todoservice/internal/model"
	"github.com/avelichko/todoservice/internal/service"
	"github.com/avelichko/todoservice/internal/store"
)

// Version is the application version.
const Version = "1.0.0"

// RESTHandler handles REST API requests for todo items. It performs the
// structural validation of the wire payload (JSON shape, id syntax,
// required fields, date format) and maps service errors to status codes;
// the business rules live in the service package.
type RESTHandler struct {
	service *service.ItemService
	logger  *zap.Logger
}

// NewRESTHandler creates a new RESTHandler instance.
func NewRESTHandler(svc *service.ItemService, logger *zap.Logger) *RESTHandler {
	return &RESTHandler{
		service: svc,
		logger:  logger,
	}
}

// RegisterRoutes registers the REST API routes with the router.
func (h *RESTHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/todos", h.ListTodoItems).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/todos", h.CreateTodoItem).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/todos/{id}", h.GetTodoItem).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/todos/{id}", h.UpdateTodoItem).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/todos/{id}", h.DeleteTodoItem).Methods(http.MethodDelete)
}

// todoItemRequest is the wire shape of a create or update payload. The due
// date and priority pointers distinguish "absent" from zero values so the
// handler can reject structurally incomplete payloads before the core
// sees them.
type todoItemRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     *model.Date `json:"due_date"`
	Priority    *string     `json:"priority"`
	Completed   bool        `json:"completed"`
}

// toServiceItem converts the request payload into the external item
// representation consumed by the service.
func (req *todoItemRequest) toServiceItem() (service.Item, error) {
	item := service.Item{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.DueDate != nil {
		item.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		priority, err := model.ParsePriority(*req.Priority)
		if err != nil {
			return service.Item{}, err
		}
		item.Priority = priority
	}
	return item, nil
}

// validateStructure rejects payloads missing structurally required fields.
func (req *todoItemRequest) validateStructure() error {
	if req.DueDate == nil {
		return errors.New("due date is required")
	}
	if req.Priority == nil {
		return errors.New("priority is required")
	}
	return nil
}

// HealthCheck handles GET /health requests.
func (h *RESTHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
	}
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(response))
}

// ReadyCheck handles GET /ready requests.
func (h *RESTHandler) ReadyCheck(w http.ResponseWriter, _ *http.Request) {
	response := ReadyResponse{
		Status: "ready",
	}
	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(response))
}

// CreateTodoItem handles POST /api/v1/todos requests.
func (h *RESTHandler) CreateTodoItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := h.service.Create(ctx, input)
	if err != nil {
		h.handleServiceError(w, err, "create todo item")
		return
	}

	h.writeJSON(w, http.StatusCreated, model.NewSuccessResponse(item))
}

// ListTodoItems handles GET /api/v1/todos requests with optional
// priority, due_date, and sort_by query parameters.
func (h *RESTHandler) ListTodoItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := service.ListQuery{
		Priority: r.URL.Query().Get("priority"),
		SortBy:   r.URL.Query().Get("sort_by"),
	}

	if raw := r.URL.Query().Get("due_date"); raw != "" {
		dueDate, err := model.ParseDate(raw)
		if err != nil {
			h.logger.Warn("invalid due_date filter", zap.String("due_date", raw), zap.Error(err))
			h.writeError(w, http.StatusBadRequest, "due_date must use the 2006-01-02 format")
			return
		}
		query.DueDate = &dueDate
	}

	items, err := h.service.GetAll(ctx, query)
	if err != nil {
		h.handleServiceError(w, err, "list todo items")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(items))
}

// GetTodoItem handles GET /api/v1/todos/{id} requests.
func (h *RESTHandler) GetTodoItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(ctx, id)
	if err != nil {
		h.handleServiceError(w, err, "get todo item")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// UpdateTodoItem handles PUT /api/v1/todos/{id} requests.
func (h *RESTHandler) UpdateTodoItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := h.service.Update(ctx, id, input)
	if err != nil {
		h.handleServiceError(w, err, "update todo item")
		return
	}

	h.writeJSON(w, http.StatusOK, model.NewSuccessResponse(item))
}

// DeleteTodoItem handles DELETE /api/v1/todos/{id} requests.
func (h *RESTHandler) DeleteTodoItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.handleServiceError(w, err, "delete todo item")
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// itemID extracts and parses the {id} path variable. On failure it writes
// a 400 response and returns false.
func (h *RESTHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Warn("invalid todo item id", zap.String("id", raw))
		h.writeError(w, http.StatusBadRequest, "todo item ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// decodeItem decodes and structurally validates a create/update payload.
// On failure it writes a 400 response and returns false.
func (h *RESTHandler) decodeItem(w http.ResponseWriter, r *http.Request) (service.Item, bool) {
	var req todoItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return service.Item{}, false
	}

	if err := req.validateStructure(); err != nil {
		h.logger.Warn("structural validation failed", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return service.Item{}, false
	}

	item, err := req.toServiceItem()
	if err != nil {
		h.logger.Warn("invalid priority", zap.Error(err))
		h.writeError(w, http.StatusBadRequest, err.Error())
		return service.Item{}, false
	}

	return item, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *RESTHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "todo item not found")
	case errors.Is(err, service.ErrInvalidItem),
		errors.Is(err, service.ErrInvalidSortKey),
		errors.Is(err, store.ErrInvalidID):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("service operation failed", zap.String("operation", operation), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a JSON response with the given status code.
func (h *RESTHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes an error response with the given status code and message.
func (h *RESTHandler) writeError(w http.ResponseWriter, status int, message string) {
	response := model.ErrorResponse{
		Code:    status,
		Message: message,
	}
	h.writeJSON(w, status, response)
}
