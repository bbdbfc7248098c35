package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"campaign-sim/internal/campaign"
	"campaign-sim/internal/geo"
	"campaign-sim/internal/intercept"
	"campaign-sim/internal/sim"
)

// Server exposes the campaign status and operator actions over HTTP.
type Server struct {
	Sim  *sim.Simulator
	Feed *sim.Broadcaster
	tpl  *template.Template
	log  *slog.Logger
}

//go:embed templates/index.html
var content embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewServer creates a server for s. feed may be nil, which disables /ws.
func NewServer(s *sim.Simulator, feed *sim.Broadcaster, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	tpl := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return "on arrival"
			}
			return t.Format("2006-01-02 15:04")
		},
	}).ParseFS(content, "templates/index.html"))
	return &Server{Sim: s, Feed: feed, tpl: tpl, log: log}
}

// Handler returns the admin routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/missions", s.handleMissions)
	mux.HandleFunc("/interest", s.handleInterest)
	mux.HandleFunc("/missions/fail", s.handleFailMission)
	mux.HandleFunc("/ufos/disarm", s.handleDisarm)
	mux.HandleFunc("/ufos/shoot-down", s.handleShootDown)
	mux.HandleFunc("/intercept", s.handleIntercept)
	mux.HandleFunc("/intercept/send", s.handleInterceptSend)
	mux.HandleFunc("/bases", s.handleBases)
	mux.HandleFunc("/bases/build", s.handleBuildBase)
	mux.HandleFunc("/bases/rename", s.handleRenameBase)
	mux.HandleFunc("/bases/destroy-building", s.handleDestroyBuilding)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Start serves the admin UI until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := s.tpl.Execute(w, s.Sim.Status()); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Missions())
}

func (s *Server) handleInterest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Interest())
}

func (s *Server) handleFailMission(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.result(w, s.Sim.FailMission(r.URL.Query().Get("id")))
}

func (s *Server) handleDisarm(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.result(w, s.Sim.DisarmUFO(r.URL.Query().Get("id")))
}

func (s *Server) handleShootDown(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.result(w, s.Sim.ShootDownUFO(r.URL.Query().Get("id")))
}

type popupRow struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Text       string `json:"text"`
	ETA        string `json:"eta"`
	EnoughFuel bool   `json:"enough_fuel"`
}

type popupView struct {
	Rows          []popupRow `json:"rows"`
	Notice        string     `json:"notice,omitempty"`
	Defences      []string   `json:"defences,omitempty"`
	DefenceNotice string     `json:"defence_notice,omitempty"`
}

func newPopupView(p *intercept.Popup) popupView {
	v := popupView{Rows: []popupRow{}, Notice: p.Notice, DefenceNotice: p.DefenceNotice}
	for i, row := range p.Rows {
		v.Rows = append(v.Rows, popupRow{Index: i, Name: row.Name, Text: row.Text, ETA: intercept.FormatETA(row.ETA), EnoughFuel: row.EnoughFuel})
	}
	for _, d := range p.Defences {
		v.Defences = append(v.Defences, d.Name)
	}
	return v
}

func (s *Server) handleIntercept(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := s.Sim.InterceptPopup(q.Get("mission"), q.Get("ufo"))
	if err != nil {
		s.result(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPopupView(p))
}

func (s *Server) handleInterceptSend(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	q := r.URL.Query()
	i, err := strconv.Atoi(q.Get("aircraft"))
	if err != nil {
		http.Error(w, "aircraft must be a row index", http.StatusBadRequest)
		return
	}
	name, err := s.Sim.SendAircraft(q.Get("mission"), q.Get("ufo"), i)
	if err != nil {
		s.result(w, err)
		return
	}
	s.log.Info("aircraft launched", "aircraft", name, "mission", q.Get("mission"), "ufo", q.Get("ufo"))
	writeJSON(w, http.StatusOK, map[string]string{"aircraft": name})
}

func (s *Server) handleBases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.Bases())
}

func (s *Server) handleBuildBase(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	q := r.URL.Query()
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	if errLon != nil || errLat != nil {
		http.Error(w, "lon and lat must be numbers", http.StatusBadRequest)
		return
	}
	base, err := s.Sim.BuildBase(q.Get("name"), geo.Vector2{Lon: lon, Lat: lat})
	if err != nil {
		s.result(w, err)
		return
	}
	s.log.Info("base built", "base", base.Name, "id", base.ID)
	writeJSON(w, http.StatusCreated, base)
}

func (s *Server) handleRenameBase(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	q := r.URL.Query()
	id, err := strconv.Atoi(q.Get("id"))
	if err != nil {
		http.Error(w, "id must be a base id", http.StatusBadRequest)
		return
	}
	s.result(w, s.Sim.RenameBase(id, q.Get("name")))
}

func (s *Server) handleDestroyBuilding(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	q := r.URL.Query()
	id, errID := strconv.Atoi(q.Get("id"))
	i, errIdx := strconv.Atoi(q.Get("building"))
	if errID != nil || errIdx != nil {
		http.Error(w, "id and building must be integers", http.StatusBadRequest)
		return
	}
	s.result(w, s.Sim.DestroyBuilding(id, i, q.Get("confirmed") == "true"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.Feed == nil {
		http.Error(w, "live feed disabled", http.StatusNotFound)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	msgs, unsubscribe := s.Feed.Subscribe()
	defer unsubscribe()

	// reader goroutine only watches for the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// result maps operation errors onto status codes.
func (s *Server) result(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, campaign.ErrMissionNotFound), errors.Is(err, campaign.ErrUFONotFound),
		errors.Is(err, campaign.ErrBaseNotFound), errors.Is(err, sim.ErrNoBuilding),
		errors.Is(err, campaign.ErrBuildingNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, sim.ErrNoTarget), errors.Is(err, intercept.ErrInvalidSelection),
		errors.Is(err, campaign.ErrInvalidBaseName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, intercept.ErrNoCommandCentre), errors.Is(err, campaign.ErrBaseLimit),
		errors.Is(err, campaign.ErrNotEnoughCredits), errors.Is(err, campaign.ErrBaseUnderAttack),
		errors.Is(err, campaign.ErrEntrance), errors.Is(err, campaign.ErrNeedsConfirmation):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("admin request failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
