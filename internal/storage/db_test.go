package storage

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"domicilios/internal"
)

func TestReplaceOutput(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "out", "solicitudes.db"))
	require.NoError(t, err)
	defer db.Close()

	first := internal.BatchResult{
		Records: []internal.LoanRequestRecord{
			{Row: 1, Name: "Ana", Identity: "7", Address: "Calle 1", Phone: "300", Item: "863  Cien años"},
			{Row: 3, Name: "Ana", Identity: "7", Address: "Calle 9", Phone: "301", Item: "N  Rayuela"},
		},
		Users: []internal.AggregatedUserRecord{
			{Identity: "7", Name: "Ana", Address: "Calle 1", Phone: "300", Items: []string{"863  Cien años", "N  Rayuela"}},
		},
	}
	require.NoError(t, db.ReplaceOutput(first))

	users, err := db.ListUsers()
	require.NoError(t, err)
	if diff := cmp.Diff(first.Users, users); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}

	second := internal.BatchResult{
		Records: []internal.LoanRequestRecord{
			{Row: 1, Name: "Luis", Identity: "12", Address: "Recibe en: Tintal", Phone: "310", Item: "DG  Atlas"},
		},
		Users: []internal.AggregatedUserRecord{
			{Identity: "12", Name: "Luis", Address: "Recibe en: Tintal", Phone: "310", Items: []string{"DG  Atlas"}},
		},
	}
	require.NoError(t, db.ReplaceOutput(second))

	requests, err := db.ListRequests()
	require.NoError(t, err)
	if diff := cmp.Diff(second.Records, requests); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestListUsersKeepsMultilineItems(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "solicitudes.db"))
	require.NoError(t, err)
	defer db.Close()

	batch := internal.BatchResult{
		Users: []internal.AggregatedUserRecord{
			{Identity: "7", Name: "Ana", Address: "Calle 1", Phone: "300", Items: []string{"863  Cien años\nde soledad", "N  Rayuela"}},
			{Identity: "9", Name: "Luis", Address: "Calle 2", Phone: "301", Items: []string{"DG  Atlas"}},
		},
	}
	require.NoError(t, db.ReplaceOutput(batch))

	users, err := db.ListUsers()
	require.NoError(t, err)
	if diff := cmp.Diff(batch.Users, users); diff != "" {
		t.Fatalf("users mismatch (-want +got):\n%s", diff)
	}
}
