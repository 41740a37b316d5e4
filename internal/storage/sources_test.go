package storage

import (
	"context"
	"testing"

	"github.com/afreitas/revisio/internal/domain"
)

func TestSourcesAndTopics(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.InsertSource(ctx, "/plans/cardio", "local")
	if err != nil {
		t.Fatalf("InsertSource() returned an unexpected error: %v", err)
	}

	found, err := db.FindSourceByPath(ctx, "/plans/cardio")
	if err != nil {
		t.Fatalf("FindSourceByPath() returned an unexpected error: %v", err)
	}
	if found == nil || found.ID != id || found.Type != "local" {
		t.Fatalf("FindSourceByPath() = %+v, want ID %d type local", found, id)
	}

	missing, err := db.FindSourceByPath(ctx, "/nope")
	if err != nil {
		t.Fatalf("FindSourceByPath() returned an unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("FindSourceByPath for unknown path = %+v, want nil", missing)
	}

	for _, name := range []string{"Arrhythmias", "Heart failure"} {
		if err := db.UpsertTopic(ctx, domain.Topic{Name: name, SourceID: id}); err != nil {
			t.Fatalf("UpsertTopic(%s) returned an unexpected error: %v", name, err)
		}
	}
	// Upsert again with notes: no duplicate, notes refreshed.
	if err := db.UpsertTopic(ctx, domain.Topic{Name: "Arrhythmias", Notes: "AF, flutter", SourceID: id}); err != nil {
		t.Fatalf("UpsertTopic() returned an unexpected error: %v", err)
	}

	topics, err := db.ListTopicsBySource(ctx, id)
	if err != nil {
		t.Fatalf("ListTopicsBySource() returned an unexpected error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("ListTopicsBySource() returned %d topics, want 2", len(topics))
	}

	all, err := db.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics() returned an unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Arrhythmias" {
		t.Errorf("ListTopics() = %+v, want sorted by name", all)
	}
	if all[0].Notes != "AF, flutter" {
		t.Errorf("upsert did not refresh notes: %+v", all[0])
	}

	if err := db.DeleteTopic(ctx, id, "Heart failure"); err != nil {
		t.Fatalf("DeleteTopic() returned an unexpected error: %v", err)
	}
	if err := db.UpdateSourceLastScanned(ctx, id); err != nil {
		t.Fatalf("UpdateSourceLastScanned() returned an unexpected error: %v", err)
	}

	sources, err := db.GetAllSources(ctx)
	if err != nil {
		t.Fatalf("GetAllSources() returned an unexpected error: %v", err)
	}
	if len(sources) != 1 || !sources[0].LastScanned.Valid {
		t.Errorf("GetAllSources() = %+v, want one scanned source", sources)
	}

	// Deleting the source removes its topics too.
	if err := db.DeleteSource(ctx, id); err != nil {
		t.Fatalf("DeleteSource() returned an unexpected error: %v", err)
	}
	all, err = db.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics() returned an unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("topics remain after source delete: %+v", all)
	}
}
