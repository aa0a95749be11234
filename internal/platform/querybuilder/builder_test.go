package querybuilder

import "testing"

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("team_aliases").
		Columns("team_id", "alias", "source").
		Values("t1", "Duke Blue Devils", "odds_feed").
		Suffix("ON CONFLICT (alias, source) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO team_aliases (team_id, alias, source) VALUES ($1, $2, $3) ON CONFLICT (alias, source) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[1] != "Duke Blue Devils" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("teams").
		Columns("id", "canonical_name").
		Values("t1", "Duke").
		Values("t2", "Kansas").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, canonical_name) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "Kansas" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderSuffixArgs(t *testing.T) {
	query, args, err := InsertInto("games").
		Columns("id", "external_id").
		Values("g1", "evt-1").
		Suffix("ON CONFLICT (external_id) DO UPDATE SET status = ? RETURNING id", "scheduled").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO games (id, external_id) VALUES ($1, $2) ON CONFLICT (external_id) DO UPDATE SET status = $3 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "scheduled" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowShapeMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").
		Columns("id", "canonical_name").
		Values("t1").
		ToSQL()
	if err == nil {
		t.Fatalf("expected error for row shape mismatch")
	}
}

func TestInsertModel(t *testing.T) {
	type aliasRow struct {
		TeamID string `db:"team_id"`
		Alias  string `db:"alias"`
		Source string `db:"source"`
		note   string `db:"hidden"`
		NoTag  string
	}

	query, args, err := InsertModel("team_aliases", aliasRow{
		TeamID: "t1",
		Alias:  "UNC Tar Heels",
		Source: "odds_feed",
	}, "ON CONFLICT (alias, source) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO team_aliases (team_id, alias, source) VALUES ($1, $2, $3) ON CONFLICT (alias, source) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[1] != "UNC Tar Heels" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelRejectsNonStruct(t *testing.T) {
	if _, _, err := InsertModel("teams", 42, ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	var nilModel *struct{}
	if _, _, err := InsertModel("teams", nilModel, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
