// Package server exposes the scorer over HTTP.
package server

import (
	"net/http"

	"github.com/boyangli/sitesafety-scorer/config"
	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/boyangli/sitesafety-scorer/scoring"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"
)

// Publisher receives every report produced by the API
type Publisher interface {
	SendReport(report *models.Report) error
}

// Server serves scoring requests and optionally publishes every report
type Server struct {
	Log       logs.Log
	scorer    *scoring.Scorer
	config    *config.ServerConfig
	publisher Publisher // nil when reports are not published
}

// NewServer creates a server. publisher may be nil.
func NewServer(log logs.Log, scorer *scoring.Scorer, cfg *config.ServerConfig, publisher Publisher) *Server {
	return &Server{
		Log:       log,
		scorer:    scorer,
		config:    cfg,
		publisher: publisher,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() *httprouter.Router {
	router := httprouter.New()

	handle := func(method, route string, h httprouter.Handle) {
		www.Handle(s.Log, router, method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			if s.config.LogRequests {
				s.Log.Infof("HTTP %v %v", method, r.URL.Path)
			}
			h(w, r, params)
		})
	}

	handle("GET", "/", s.httpHealth)
	handle("POST", "/api/score/image", s.httpScoreImage)
	handle("POST", "/api/score/video", s.httpScoreVideo)
	return router
}

// ListenAndServe blocks until the HTTP server fails
func (s *Server) ListenAndServe() error {
	s.Log.Infof("Listening on %v", s.config.Addr)
	return http.ListenAndServe(s.config.Addr, s.Router())
}

func (s *Server) publish(report *models.Report) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.SendReport(report); err != nil {
		s.Log.Errorf("Failed to publish report %v (%v): %v", report.ReportID, report.Source, err)
		return
	}
	if s.config.LogRequests {
		s.Log.Infof("Published %v report %v (%v), total score %.2f", report.Kind, report.ReportID, report.Source, report.TotalScore())
	}
}
