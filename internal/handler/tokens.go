package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// IssueToken handles POST /jwt
// Signs the posted identity payload. Credentials are not checked; the caller
// is trusted to have authenticated with the identity provider.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req model.TokenRequest
	if err := h.decodeValid(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, err := h.tokens.Issue(req.Claims)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}

// CreatePaymentIntent handles POST /create-payment-intent
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentIntentRequest
	if err := h.decodeValid(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	secret, err := h.payments.CreateIntent(r.Context(), req.Price.String())
	if err != nil {
		h.writeServiceError(w, r, err, "failed to create payment intent")
		return
	}

	writeJSON(w, http.StatusOK, model.PaymentIntentResponse{ClientSecret: secret})
}
