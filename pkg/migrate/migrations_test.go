package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsContainConstraints(t *testing.T) {
	cases := map[string][]string{
		"create_users": {
			"CONSTRAINT users_email_key UNIQUE (email)",
			"CONSTRAINT user_addresses_user_alias_key UNIQUE (user_id, alias)",
			"DROP TABLE IF EXISTS users",
		},
		"create_catalog": {
			"CONSTRAINT coupons_name_key UNIQUE (name)",
			"FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS categories",
		},
		"create_products_and_reviews": {
			"CHECK (price_after_discount IS NULL OR price_after_discount < price)",
			"CONSTRAINT reviews_user_product_key UNIQUE (user_id, product_id)",
			"CHECK (rating BETWEEN 1 AND 5)",
			"CONSTRAINT wishlist_items_user_product_key UNIQUE (user_id, product_id)",
		},
		"create_carts_and_orders": {
			"CONSTRAINT carts_user_id_key UNIQUE (user_id)",
			"CONSTRAINT orders_checkout_session_id_key UNIQUE (checkout_session_id)",
			"CHECK (payment_method IN ('cash', 'card'))",
			"DROP TABLE IF EXISTS order_items",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}

func TestValidateDirAcceptsRepositoryMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir returned error: %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	path, err := migrate.CreateSQLMigration(dir, "Add Order Notes!", now)
	if err != nil {
		t.Fatalf("CreateSQLMigration returned error: %v", err)
	}
	if filepath.Base(path) != "20260301100000_add_order_notes.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
	if _, err := migrate.CreateSQLMigration(dir, "Add Order Notes!", now); err == nil {
		t.Fatal("expected duplicate migration to fail")
	}
	if _, err := migrate.CreateSQLMigration(dir, "!!!", now); err == nil {
		t.Fatal("expected empty sanitized name to fail")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename to fail")
	}
}

func TestModelsCoverEveryTable(t *testing.T) {
	if got := len(migrate.Models()); got != 13 {
		t.Fatalf("expected 13 models, got %d", got)
	}
}

func TestScanOrdersRepositoryMigrations(t *testing.T) {
	files, err := migrate.Scan("migrations")
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(files) != 4 {
		t.Fatalf("expected 4 migrations, got %d", len(files))
	}
	for i := 1; i < len(files); i++ {
		if files[i-1].Version >= files[i].Version {
			t.Fatalf("migrations out of order: %d then %d", files[i-1].Version, files[i].Version)
		}
	}
	if files[0].Name != "create_users" {
		t.Fatalf("expected create_users first, got %s", files[0].Name)
	}
	if !migrate.HasVersion(files, files[2].Version) || !migrate.HasVersion(files, 0) {
		t.Fatal("expected known versions to be reachable")
	}
	if migrate.HasVersion(files, 20990101000000) {
		t.Fatal("unknown version reported as present")
	}
}

func TestValidateDirRejectsMissingDown(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "20260301100000_only_up.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	err := migrate.ValidateDir(dir)
	if err == nil || !strings.Contains(err.Error(), "-- +goose Down") {
		t.Fatalf("expected missing down annotation error, got %v", err)
	}
}
