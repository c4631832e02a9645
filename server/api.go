package server

import (
	"net/http"

	"github.com/boyangli/sitesafety-scorer/models"
	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"
)

type scoreImageRequest struct {
	Source string              `json:"source"`
	Fire   models.DetectionSet `json:"fire"`
	PPE    models.DetectionSet `json:"ppe"`
}

type scoreVideoRequest struct {
	Source string         `json:"source"`
	Frames []models.Frame `json:"frames"`
}

type healthResponse struct {
	OK        bool     `json:"ok"`
	Endpoints []string `json:"endpoints"`
}

func (s *Server) httpHealth(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendJSON(w, &healthResponse{
		OK: true,
		Endpoints: []string{
			"POST /api/score/image",
			"POST /api/score/video",
		},
	})
}

func (s *Server) httpScoreImage(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req scoreImageRequest
	www.ReadJSON(w, r, &req, s.config.MaxBodyBytes)

	report := models.NewImageReport(req.Source, s.scorer.ScoreImage(req.Fire, req.PPE))
	s.publish(report)
	www.SendJSON(w, report)
}

func (s *Server) httpScoreVideo(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req scoreVideoRequest
	www.ReadJSON(w, r, &req, s.config.MaxBodyBytes)
	if req.Frames == nil {
		www.PanicBadRequestf("frames must be present (use [] for a video with no readable frames)")
	}

	// One aggregator per request
	agg := s.scorer.ScoreVideo(req.Frames)
	if agg.Frames == 0 {
		s.Log.Warnf("Video %v has no frames", req.Source)
	}

	report := models.NewVideoReport(req.Source, agg.Result())
	s.publish(report)
	www.SendJSON(w, report)
}
