package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"freshcart/internal/service/order/application"
	"freshcart/internal/service/order/domain"
)

// OrderHandler 封装了 order 服务的 HTTP 处理器
type OrderHandler struct {
	service *application.OrderApplicationService
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(service *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders/validate_stock", h.handleValidateStock)
	mux.HandleFunc("POST /orders", h.handlePlaceOrder)
	mux.HandleFunc("GET /orders", h.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("GET /orders/track/{trackingId}", h.handleTrackOrder)
	mux.HandleFunc("POST /orders/{id}/status", h.handleSetStatus)
}

func (h *OrderHandler) handleValidateStock(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.ValidateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ValidateStock(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if req.UserID == "" {
		req.UserID = userID(r)
	}

	order, err := h.service.PlaceOrder(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	uid := userID(r)
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "userId is required"})
		return
	}

	orders, err := h.service.ListOrders(ctx, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": orders})
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	order, err := h.service.GetOrder(ctx, r.PathValue("id"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) handleTrackOrder(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	order, err := h.service.TrackOrder(ctx, r.PathValue("trackingId"), userID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.SetStatus(ctx, r.PathValue("id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// userID 从请求头或查询参数里取用户标识，请求头优先。
func userID(r *http.Request) string {
	if uid := strings.TrimSpace(r.Header.Get("X-User-ID")); uid != "" {
		return uid
	}
	return strings.TrimSpace(r.URL.Query().Get("userId"))
}

// writeError 根据错误类型返回不同的 HTTP 状态码。
// 整单不可满足时把所有问题行一起带回，客户端一次就能改对。
func writeError(w http.ResponseWriter, err error) {
	var unavailable *domain.UnavailableError
	if errors.As(err, &unavailable) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"message":            unavailable.Error(),
			"unsatisfiableLines": unavailable.Lines,
		})
		return
	}

	var invalidTransition *domain.InvalidTransitionError
	if errors.As(err, &invalidTransition) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{"message": invalidTransition.Error()})
		return
	}

	var statusCode int
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrStockConflict),
		errors.Is(err, domain.ErrStatusConflict),
		errors.Is(err, domain.ErrDuplicateRequest):
		statusCode = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, application.ErrBadLine):
		statusCode = http.StatusBadRequest
	default:
		// 存储/基础设施故障不是客户端的错
		statusCode = http.StatusInternalServerError
	}
	writeJSON(w, statusCode, map[string]interface{}{"message": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func extract(r *http.Request) context.Context {
	propagator := otel.GetTextMapPropagator()
	return propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
}
