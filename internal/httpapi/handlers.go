package httpapi

import (
	"net/http"

	"github.com/brolli/brolli/internal/chat"
	"github.com/brolli/brolli/internal/risk"
	"github.com/brolli/brolli/internal/voucher"
)

type issueRequest struct {
	Beneficiary string `json:"beneficiary"`
}

type batchRequest struct {
	Beneficiaries []string `json:"beneficiaries"`
}

type textRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	TopicID string  `json:"topicId"`
	Score   float64 `json:"score"`
	Title   string  `json:"title"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.issuer != nil {
		body["network"] = s.issuer.Network().String()
		body["chainId"] = s.issuer.ChainID()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleIssue(variant voucher.Variant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req issueRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
		issued, err := s.issuer.Issue(r.Context(), req.Beneficiary, variant)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, issued)
	}
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	batch, err := s.issuer.IssueBatch(r.Context(), req.Beneficiaries)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleListVerticals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Verticals())
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req risk.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.engine.AssessGraph(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.chat.Reply(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res := s.responder.Classify(req.Text)
	topic := s.catalog.TopicByID(res.ID)
	writeJSON(w, http.StatusOK, classifyResponse{TopicID: topic.ID, Score: res.Score, Title: topic.Title})
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Assess(req.Text))
}
