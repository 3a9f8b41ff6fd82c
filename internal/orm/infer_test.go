package orm

import (
	"reflect"
	"testing"
	"time"
)

func TestInferMigration(t *testing.T) {
	tests := []struct {
		name string
		want MigrationIntent
	}{
		{"create_users_table", MigrationIntent{Kind: KindCreate, Table: "users"}},
		{"create_users", MigrationIntent{Kind: KindCreate, Table: "users"}},
		{"CreateBlogPostsTable", MigrationIntent{Kind: KindCreate, Table: "blog_posts"}},
		{"create_table", MigrationIntent{Kind: KindBlank}},
		{"add_email_to_users", MigrationIntent{Kind: KindAddColumns, Table: "users", Columns: []string{"email"}}},
		{"add_email_and_age_to_users_table", MigrationIntent{Kind: KindAddColumns, Table: "users", Columns: []string{"email", "age"}}},
		{"add_user_id_to_posts", MigrationIntent{Kind: KindAddColumns, Table: "posts", Columns: []string{"user_id"}}},
		{"add_to_users", MigrationIntent{Kind: KindBlank}},
		{"remove_age_from_users", MigrationIntent{Kind: KindRemoveColumns, Table: "users", Columns: []string{"age"}}},
		{"remove_from_users", MigrationIntent{Kind: KindBlank}},
		{"drop_sessions_table", MigrationIntent{Kind: KindDrop, Table: "sessions"}},
		{"rename_users_to_members", MigrationIntent{Kind: KindRename, Table: "users", NewTable: "members"}},
		{"rename_users_to_members_table", MigrationIntent{Kind: KindRename, Table: "users", NewTable: "members"}},
		{"rename_users", MigrationIntent{Kind: KindBlank}},
		{"backfill_slugs", MigrationIntent{Kind: KindBlank}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferMigration(tt.name)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestWithTable(t *testing.T) {
	intent := InferMigration("add_email_to_users").WithTable("accounts")
	if intent.Table != "accounts" || intent.Kind != KindAddColumns {
		t.Errorf("Expected table override, got %+v", intent)
	}

	blank := InferMigration("backfill").WithTable("posts")
	if blank.Kind != KindBlank || blank.Table != "posts" {
		t.Errorf("Expected blank intent with table, got %+v", blank)
	}

	unchanged := InferMigration("drop_sessions").WithTable("")
	if unchanged.Table != "sessions" {
		t.Errorf("Expected inferred table to stay, got %+v", unchanged)
	}

	tableless := MigrationIntent{Kind: KindCreate}.WithTable("")
	if tableless.Kind != KindBlank {
		t.Errorf("Expected table-less intent to become blank, got %+v", tableless)
	}
}

func TestMigrationName(t *testing.T) {
	now := time.Date(2024, 3, 9, 7, 5, 1, 0, time.FixedZone("CET", 3600))
	if got := MigrationName(now, "create_users_table"); got != "20240309060501-create-users-table" {
		t.Errorf("Unexpected migration name: %s", got)
	}
	if got := StripExtension("20240309060501-create-users-table.js"); got != "20240309060501-create-users-table" {
		t.Errorf("Unexpected stripped name: %s", got)
	}
}

func TestRollbackSteps(t *testing.T) {
	if (RollbackOptions{}).Steps() != 1 {
		t.Error("Expected default of one step")
	}
	if (RollbackOptions{Step: 3}).Steps() != 3 {
		t.Error("Expected explicit step count")
	}
}
