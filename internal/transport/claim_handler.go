package transport

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/goodnatureofminers/onclick-backend/internal/service"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// ClaimHandler serves the claim engine on a gateway mux.
type ClaimHandler struct {
	logger      *zap.Logger
	engine      Engine
	redemptions RedemptionReader
	outcomes    OutcomeSource

	streamsDone chan struct{}
	closeOnce   sync.Once
}

// NewClaimHandler returns a ClaimHandler. redemptions may be nil when no
// journal is configured, outcomes when no outcome stream is served.
func NewClaimHandler(logger *zap.Logger, engine Engine, redemptions RedemptionReader, outcomes OutcomeSource) *ClaimHandler {
	return &ClaimHandler{
		logger:      logger,
		engine:      engine,
		redemptions: redemptions,
		outcomes:    outcomes,
		streamsDone: make(chan struct{}),
	}
}

type route struct {
	method  string
	pattern string
	handler gwruntime.HandlerFunc
}

// Register adds the claim routes to mux.
func (h *ClaimHandler) Register(mux *gwruntime.ServeMux) error {
	routes := []route{
		{http.MethodPost, "/v1/click", h.click},
		{http.MethodGet, "/v1/clicks", h.clicks},
		{http.MethodGet, "/v1/network", h.network},
		{http.MethodPut, "/v1/network", h.selectNetwork},
		{http.MethodGet, "/v1/networks/{network}/binding", h.binding},
		{http.MethodGet, "/v1/claims", h.listClaims},
		{http.MethodPost, "/v1/claims", h.generateClaim},
		{http.MethodPost, "/v1/claims/load", h.loadClaim},
		{http.MethodPost, "/v1/claims/reconcile", h.reconcile},
		{http.MethodPost, "/v1/claims/{token}/send", h.sendClaim},
		{http.MethodDelete, "/v1/claims/{token}", h.removeClaim},
		{http.MethodGet, "/v1/claims/{token}/export", h.exportClaim},
		{http.MethodGet, "/v1/balances/{address}", h.balance},
		{http.MethodPost, "/v1/signers", h.grantSigner},
		{http.MethodGet, "/v1/redemptions", h.listRedemptions},
		{http.MethodGet, "/v1/outcomes", h.streamOutcomes},
	}
	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *ClaimHandler) click(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	resp, err := h.engine.Click(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": resp.Success,
		"token":   resp.Token,
		"clicks":  resp.Clicks,
	})
}

func (h *ClaimHandler) clicks(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	resp, err := h.engine.Clicks(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": resp.Success,
		"clicks":  resp.Clicks,
		"message": resp.Message,
	})
}

type networkView struct {
	ID       model.NetworkID `json:"id"`
	Name     string          `json:"name"`
	Contract string          `json:"contract"`
	Selected bool            `json:"selected"`
}

func (h *ClaimHandler) network(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	selected, err := h.engine.Network(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	networks := h.engine.Networks()
	out := make([]networkView, 0, len(networks))
	for _, n := range networks {
		out = append(out, networkView{
			ID:       n.ID,
			Name:     n.Name,
			Contract: n.Contract.Hex(),
			Selected: n.ID == selected,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *ClaimHandler) selectNetwork(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		Network model.NetworkID `json:"network"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Network == 0 {
		h.writeError(w, &service.InputError{Field: "network"})
		return
	}
	if err := h.engine.SelectNetwork(r.Context(), req.Network); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]model.NetworkID{"network": req.Network})
}

func (h *ClaimHandler) binding(w http.ResponseWriter, r *http.Request, params map[string]string) {
	id, err := model.ParseNetworkID(params["network"])
	if err != nil {
		h.writeError(w, &service.InputError{Field: "network", Reason: err.Error()})
		return
	}
	info, err := h.engine.Binding(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

func (h *ClaimHandler) listClaims(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	claims, err := h.engine.Claims(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if claims == nil {
		claims = []service.StoredClaim{}
	}
	h.writeJSON(w, http.StatusOK, claims)
}

func (h *ClaimHandler) generateClaim(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		Recipient string `json:"recipient"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeOutcome(w, h.engine.Dispatch(r.Context(), service.Command{
		Kind:      service.CommandGenerateClaim,
		Recipient: req.Recipient,
	}))
}

func (h *ClaimHandler) loadClaim(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		Packed string `json:"packed"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeOutcome(w, h.engine.Dispatch(r.Context(), service.Command{
		Kind:   service.CommandLoadClaim,
		Packed: req.Packed,
	}))
}

// sendClaim redeems a claim. Clicks and signature default to the stored
// claim under the path token.
func (h *ClaimHandler) sendClaim(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req struct {
		Network   model.NetworkID `json:"network"`
		Recipient string          `json:"recipient"`
		Clicks    uint64          `json:"clicks"`
		Signature string          `json:"signature"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	cmd, err := h.engine.ResolveSend(r.Context(), service.Command{
		Kind:      service.CommandSendClaim,
		Network:   req.Network,
		Recipient: req.Recipient,
		Token:     params["token"],
		Clicks:    req.Clicks,
		Signature: req.Signature,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeOutcome(w, h.engine.Dispatch(r.Context(), cmd))
}

func (h *ClaimHandler) removeClaim(w http.ResponseWriter, r *http.Request, params map[string]string) {
	h.writeOutcome(w, h.engine.Dispatch(r.Context(), service.Command{
		Kind:  service.CommandRemoveClaim,
		Token: params["token"],
	}))
}

func (h *ClaimHandler) exportClaim(w http.ResponseWriter, r *http.Request, params map[string]string) {
	packed, err := h.engine.ExportClaim(r.Context(), params["token"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"packed": packed})
}

func (h *ClaimHandler) reconcile(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	res, err := h.engine.Reconcile(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *ClaimHandler) balance(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var network model.NetworkID
	if v := r.URL.Query().Get("network"); v != "" {
		id, err := model.ParseNetworkID(v)
		if err != nil {
			h.writeError(w, &service.InputError{Field: "network", Reason: err.Error()})
			return
		}
		network = id
	}
	balance, err := h.engine.Balance(r.Context(), network, params["address"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"address": params["address"],
		"balance": balance,
	})
}

func (h *ClaimHandler) grantSigner(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req struct {
		Signer    string `json:"signer"`
		Allowance string `json:"allowance"`
	}
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	txHash, err := h.engine.GrantSigner(r.Context(), req.Signer, req.Allowance)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"txHash": txHash})
}

func (h *ClaimHandler) listRedemptions(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if h.redemptions == nil {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "redemption journal is not configured"})
		return
	}
	q := r.URL.Query()
	filter := model.RedemptionFilter{
		Recipient: q.Get("recipient"),
		Token:     q.Get("token"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			h.writeError(w, &service.InputError{Field: "limit", Reason: err.Error()})
			return
		}
		filter.Limit = limit
	}
	out, err := h.redemptions.Redemptions(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if out == nil {
		out = []model.Redemption{}
	}
	h.writeJSON(w, http.StatusOK, out)
}
