package naming

import (
	"testing"

	"go.eggybyte.com/yolk/internal/errors"
)

func TestCaseConversion(t *testing.T) {
	tests := []struct {
		input  string
		snake  string
		kebab  string
		pascal string
		camel  string
	}{
		{"user", "user", "user", "User", "user"},
		{"UserProfile", "user_profile", "user-profile", "UserProfile", "userProfile"},
		{"userProfile", "user_profile", "user-profile", "UserProfile", "userProfile"},
		{"user-profile", "user_profile", "user-profile", "UserProfile", "userProfile"},
		{"user_profile", "user_profile", "user-profile", "UserProfile", "userProfile"},
		{"user profile", "user_profile", "user-profile", "UserProfile", "userProfile"},
		{"USERS", "users", "users", "Users", "users"},
		{"userID", "user_id", "user-id", "UserId", "userId"},
		{"APIKey", "api_key", "api-key", "ApiKey", "apiKey"},
		{"HTTPServer", "http_server", "http-server", "HttpServer", "httpServer"},
		{"oauth2Token", "oauth2_token", "oauth2-token", "Oauth2Token", "oauth2Token"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Snake(tt.input); got != tt.snake {
				t.Errorf("Snake(%q) = %q, want %q", tt.input, got, tt.snake)
			}
			if got := Kebab(tt.input); got != tt.kebab {
				t.Errorf("Kebab(%q) = %q, want %q", tt.input, got, tt.kebab)
			}
			if got := Pascal(tt.input); got != tt.pascal {
				t.Errorf("Pascal(%q) = %q, want %q", tt.input, got, tt.pascal)
			}
			if got := Camel(tt.input); got != tt.camel {
				t.Errorf("Camel(%q) = %q, want %q", tt.input, got, tt.camel)
			}
		})
	}
}

func TestInflection(t *testing.T) {
	tests := []struct {
		singular string
		plural   string
	}{
		{"user", "users"},
		{"category", "categories"},
		{"person", "people"},
		{"user_profile", "user_profiles"},
		{"address", "addresses"},
		{"status", "statuses"},
		{"class", "classes"},
		{"alias", "aliases"},
		{"analysis", "analyses"},
	}

	for _, tt := range tests {
		if got := Plural(tt.singular); got != tt.plural {
			t.Errorf("Plural(%q) = %q, want %q", tt.singular, got, tt.plural)
		}
		if got := Singular(tt.plural); got != tt.singular {
			t.Errorf("Singular(%q) = %q, want %q", tt.plural, got, tt.singular)
		}
	}

	for _, word := range []string{"address", "status", "class", "alias"} {
		if got := Singular(word); got != word {
			t.Errorf("Singular(%q) = %q, want it unchanged", word, got)
		}
	}

	if Plural("") != "" || Singular("") != "" {
		t.Error("Expected empty input to stay empty")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		suffix       string
		dir          string
		pascal       string
		pascalPlural string
		snakePlural  string
		kebabPlural  string
		camel        string
	}{
		{
			name: "plain singular", raw: "user",
			pascal: "User", pascalPlural: "Users", snakePlural: "users", kebabPlural: "users", camel: "user",
		},
		{
			name: "plural input", raw: "users",
			pascal: "User", pascalPlural: "Users", snakePlural: "users", kebabPlural: "users", camel: "user",
		},
		{
			name: "controller suffix", raw: "UserProfilesController", suffix: "controller",
			pascal: "UserProfile", pascalPlural: "UserProfiles", snakePlural: "user_profiles", kebabPlural: "user-profiles", camel: "userProfile",
		},
		{
			name: "snake controller suffix", raw: "blog_post_controller", suffix: "controller",
			pascal: "BlogPost", pascalPlural: "BlogPosts", snakePlural: "blog_posts", kebabPlural: "blog-posts", camel: "blogPost",
		},
		{
			name: "singular ending in ss", raw: "address",
			pascal: "Address", pascalPlural: "Addresses", snakePlural: "addresses", kebabPlural: "addresses", camel: "address",
		},
		{
			name: "acronym", raw: "APIKey",
			pascal: "ApiKey", pascalPlural: "ApiKeys", snakePlural: "api_keys", kebabPlural: "api-keys", camel: "apiKey",
		},
		{
			name: "trailing acronym", raw: "userID",
			pascal: "UserId", pascalPlural: "UserIds", snakePlural: "user_ids", kebabPlural: "user-ids", camel: "userId",
		},
		{
			name: "nested with extension", raw: "admin/reports/category.js",
			dir: "admin/reports", pascal: "Category", pascalPlural: "Categories", snakePlural: "categories", kebabPlural: "categories", camel: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.raw, tt.suffix)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if n.Dir != tt.dir {
				t.Errorf("Dir = %q, want %q", n.Dir, tt.dir)
			}
			if n.Pascal != tt.pascal {
				t.Errorf("Pascal = %q, want %q", n.Pascal, tt.pascal)
			}
			if n.PascalPlural != tt.pascalPlural {
				t.Errorf("PascalPlural = %q, want %q", n.PascalPlural, tt.pascalPlural)
			}
			if n.SnakePlural != tt.snakePlural {
				t.Errorf("SnakePlural = %q, want %q", n.SnakePlural, tt.snakePlural)
			}
			if n.KebabPlural != tt.kebabPlural {
				t.Errorf("KebabPlural = %q, want %q", n.KebabPlural, tt.kebabPlural)
			}
			if n.Camel != tt.camel {
				t.Errorf("Camel = %q, want %q", n.Camel, tt.camel)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	first, err := Parse("blog-posts", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := Parse(first.Pascal, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.Pascal != second.Pascal || first.SnakePlural != second.SnakePlural {
		t.Errorf("Parse is not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		suffix string
	}{
		{"empty", "   ", ""},
		{"absolute", "/etc/passwd", ""},
		{"escaping", "../user", ""},
		{"digits only", "123", ""},
		{"leading digit", "1user", ""},
		{"suffix only", "Controller", "controller"},
		{"empty segment", "admin//user", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, tt.suffix)
			if !errors.IsCode(err, errors.CodeInvalidArgument) {
				t.Errorf("Expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}
