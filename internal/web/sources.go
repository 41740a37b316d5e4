package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/afreitas/revisio/internal/sync"
)

func (s *Server) handleGetSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.sourceListData(r.Context(), "")
		if err != nil {
			log.Printf("Error listing sources: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "source_list", data)
	}
}

func (s *Server) handlePostSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimSpace(r.PostFormValue("path"))
		if path == "" {
			http.Error(w, "Path is required", http.StatusBadRequest)
			return
		}
		sourceType := sync.SourceType(path)
		if _, err := s.sources.InsertSource(r.Context(), path, sourceType); err != nil {
			log.Printf("Error inserting source %s: %v", path, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data, err := s.sourceListData(r.Context(), fmt.Sprintf("Added %s source.", sourceType))
		if err != nil {
			log.Printf("Error listing sources: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "source_list", data)
	}
}

func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if err := s.sources.DeleteSource(r.Context(), id); err != nil {
			log.Printf("Error deleting source %d: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data, err := s.sourceListData(r.Context(), "Source removed.")
		if err != nil {
			log.Printf("Error listing sources: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "source_list", data)
	}
}

func (s *Server) handlePostSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.runSync == nil {
			http.Error(w, "Syncing is not configured", http.StatusNotImplemented)
			return
		}
		notice := "Sync complete."
		if err := s.runSync(r.Context()); err != nil {
			log.Printf("Error syncing sources: %v", err)
			notice = "Sync failed, see server logs."
		}
		data, err := s.sourceListData(r.Context(), notice)
		if err != nil {
			log.Printf("Error listing sources: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		s.render(w, "source_list", data)
	}
}

func (s *Server) sourceListData(ctx context.Context, notice string) (sourceListView, error) {
	sources, err := s.sources.GetAllSources(ctx)
	if err != nil {
		return sourceListView{}, fmt.Errorf("get sources: %w", err)
	}
	view := sourceListView{Notice: notice}
	for _, src := range sources {
		row := sourceRowView{ID: src.ID, Path: src.Path, Type: src.Type}
		if src.LastScanned.Valid {
			if scanned, err := time.Parse(time.RFC3339, src.LastScanned.String); err == nil {
				row.LastScanned = scanned.Local().Format("2006-01-02 15:04")
			}
		}
		view.Sources = append(view.Sources, row)
	}
	return view, nil
}
