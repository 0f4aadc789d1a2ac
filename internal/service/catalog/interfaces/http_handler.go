package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"freshcart/internal/service/catalog/application"
	"freshcart/internal/service/catalog/domain"
)

// CatalogHandler 封装了 catalog 服务的 HTTP 处理器
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler 创建一个新的 HTTP 处理器实例
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /items", h.handleListItems)
	mux.HandleFunc("GET /items/{id}", h.handleGetItem)
	mux.HandleFunc("POST /items", h.handleCreateItem)
	mux.HandleFunc("PUT /items/{id}", h.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", h.handleDeleteItem)
	mux.HandleFunc("POST /items/{id}/restock", h.handleRestock)
}

func (h *CatalogHandler) handleListItems(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	items, err := h.service.ListItems(ctx, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": items})
}

func (h *CatalogHandler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	item, err := h.service.GetItem(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.service.CreateItem(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *CatalogHandler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.UpsertItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.service.UpdateItem(ctx, r.PathValue("id"), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	if err := h.service.DeactivateItem(ctx, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Item deactivated successfully"})
}

func (h *CatalogHandler) handleRestock(w http.ResponseWriter, r *http.Request) {
	ctx := extract(r)

	var req application.RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Restock(ctx, r.PathValue("id"), req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Stock updated successfully"})
}

// writeError 根据错误类型返回不同的 HTTP 状态码。
// 没有归类的错误（存储故障等）一律按服务端错误处理，不能伪装成客户端问题。
func writeError(w http.ResponseWriter, err error) {
	var statusCode int
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrItemInactive),
		errors.Is(err, domain.ErrInsufficientStock):
		statusCode = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidItem):
		statusCode = http.StatusBadRequest
	default:
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
