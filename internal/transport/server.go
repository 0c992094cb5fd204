// Package transport is the HTTP/JSON front-end §1 of the spec places
// explicitly out of core scope, implemented here as the external
// collaborator the command/reply surface (§4.1, §6) describes it as. It
// holds no engine state of its own — every handler does nothing but
// translate a request into one call against internal/engine's synchronous
// facade and render the reply.
package transport

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/btcusdc-exchange/internal/book"
	"github.com/uhyunpark/btcusdc-exchange/internal/decimalfmt"
	"github.com/uhyunpark/btcusdc-exchange/internal/engine"
	"github.com/uhyunpark/btcusdc-exchange/internal/errs"
	"github.com/uhyunpark/btcusdc-exchange/internal/ledger"
)

// Server wires the engine's command surface to REST + a trade-tape
// WebSocket feed.
type Server struct {
	eng    *engine.Engine
	router *mux.Router
	hub    *hub
	log    *zap.SugaredLogger
}

// NewServer builds the router and registers a trade listener on eng so
// every settled fill reaches connected WebSocket subscribers.
func NewServer(eng *engine.Engine, log *zap.SugaredLogger) *Server {
	s := &Server{
		eng:    eng,
		router: mux.NewRouter(),
		hub:    newHub(log),
		log:    log,
	}
	eng.OnTrade(s.hub.pushTrade)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/users", s.handleInitializeUser).Methods(http.MethodPost)
	s.router.HandleFunc("/users/{id}/deposits", s.handleDeposit).Methods(http.MethodPost)
	s.router.HandleFunc("/users/{id}/balances", s.handleGetBalances).Methods(http.MethodGet)
	s.router.HandleFunc("/users/{id}/orders", s.handleGetUserOrders).Methods(http.MethodGet)
	s.router.HandleFunc("/users/{id}/orders", s.handleCreateOrder).Methods(http.MethodPost)
	s.router.HandleFunc("/users/{id}/orders/{orderID}", s.handleCancelOrder).Methods(http.MethodDelete)
	s.router.HandleFunc("/ws", s.hub.serveWS)
}

// Start runs the trade-tape hub and serves HTTP on addr.
func (s *Server) Start(addr string) error {
	go s.hub.run()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	s.log.Infow("transport_listening", "addr", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInitializeUser(w http.ResponseWriter, r *http.Request) {
	id := s.eng.InitializeUser()
	respondJSON(w, http.StatusCreated, map[string]string{"user_id": id.Hex()})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	user, ok := parseUser(w, r)
	if !ok {
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	asset, ok := parseAsset(w, req.Asset)
	if !ok {
		return
	}

	var amount uint64
	var err error
	if asset == ledger.BTC {
		amount, err = decimalfmt.ParseBTC(req.Amount)
	} else {
		amount, err = decimalfmt.ParseUSDC(req.Amount)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_amount", err.Error())
		return
	}

	status, err := s.eng.Deposit(user, asset, amount)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, depositResponse{Status: status})
}

func (s *Server) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	user, ok := parseUser(w, r)
	if !ok {
		return
	}

	balances, found := s.eng.GetBalances(user)
	if !found {
		respondError(w, http.StatusNotFound, "unknown_user", "")
		return
	}

	out := make([]balanceEntry, 0, len(balances))
	for asset, bal := range balances {
		format := decimalfmt.FormatUSDC
		if asset == ledger.BTC {
			format = decimalfmt.FormatBTC
		}
		out = append(out, balanceEntry{
			Asset:     asset.String(),
			Available: format(bal.Available),
			Locked:    format(bal.Locked),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := parseUser(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	var side book.Side
	switch req.Side {
	case "bid":
		side = book.Bid
	case "ask":
		side = book.Ask
	default:
		respondError(w, http.StatusBadRequest, "bad_side", `side must be "bid" or "ask"`)
		return
	}

	price, err := decimalfmt.ParsePrice(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_price", err.Error())
		return
	}
	qty, err := decimalfmt.ParseBTC(req.Quantity)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_quantity", err.Error())
		return
	}

	orderID, filled, err := s.eng.CreateOrder(user, side, price, qty)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if filled {
		respondJSON(w, http.StatusOK, createOrderResponse{Status: "filled"})
		return
	}
	respondJSON(w, http.StatusCreated, createOrderResponse{OrderID: orderID})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := parseUser(w, r)
	if !ok {
		return
	}
	orderID := mux.Vars(r)["orderID"]

	if err := s.eng.CancelOrder(user, orderID); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleGetUserOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := parseUser(w, r)
	if !ok {
		return
	}

	orders := s.eng.GetUserOrders(user)
	out := make([]orderView, len(orders))
	for i, o := range orders {
		out[i] = orderView{
			OrderID:   o.ID,
			Side:      o.Side.String(),
			Price:     decimalfmt.FormatPrice(o.Price),
			Remaining: decimalfmt.FormatBTC(o.Remaining),
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func parseUser(w http.ResponseWriter, r *http.Request) (ledger.UserID, bool) {
	raw := mux.Vars(r)["id"]
	if !common.IsHexAddress(raw) {
		respondError(w, http.StatusBadRequest, "bad_user_id", "not a valid user id")
		return ledger.UserID{}, false
	}
	return common.HexToAddress(raw), true
}

func parseAsset(w http.ResponseWriter, raw string) (ledger.AssetCode, bool) {
	switch raw {
	case "BTC":
		return ledger.BTC, true
	case "USDC":
		return ledger.USDC, true
	default:
		respondError(w, http.StatusBadRequest, "bad_asset", "asset must be BTC or USDC")
		return 0, false
	}
}

func respondEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := errs.KindOf(err); ok {
		switch kind {
		case errs.KindUnknownUser, errs.KindOrderNotFound:
			status = http.StatusNotFound
		case errs.KindUnknownAsset, errs.KindInvalidInput:
			status = http.StatusBadRequest
		case errs.KindOverflow, errs.KindInsufficientFunds:
			status = http.StatusUnprocessableEntity
		case errs.KindNotOwner:
			status = http.StatusForbidden
		case errs.KindRateLimited:
			status = http.StatusTooManyRequests
		}
	}
	respondError(w, status, "command_failed", err.Error())
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: errCode, Message: message})
}
