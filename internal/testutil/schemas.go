package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// UserProfileSchema is a small object schema used as a simple-tier fixture.
const UserProfileSchema = `{
  "title": "User Profile",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "email": {"type": "string", "format": "email"},
    "age": {"type": "integer", "minimum": 18, "maximum": 90}
  },
  "required": ["name", "email"]
}`

// ShoppingCartSchema carries arithmetic invariants between items, subtotal,
// and total. Used as a medium-tier fixture.
const ShoppingCartSchema = `{
  "title": "Shopping Cart",
  "type": "object",
  "properties": {
    "cart_id": {"type": "string"},
    "items": {
      "type": "array",
      "minItems": 1,
      "maxItems": 3,
      "items": {
        "type": "object",
        "properties": {
          "product_name": {"type": "string"},
          "quantity": {"type": "integer", "minimum": 1, "maximum": 5},
          "price": {"type": "number", "minimum": 1, "maximum": 200}
        },
        "required": ["product_name", "quantity", "price"]
      }
    },
    "subtotal": {"type": "number"},
    "shipping_cost": {"type": "number", "minimum": 0, "maximum": 50},
    "total": {"type": "number"}
  },
  "required": ["cart_id", "items", "subtotal", "total"]
}`

// WriteSchemaFixture lays out a schemas root with one simple and one medium
// schema and returns its path.
func WriteSchemaFixture(t testing.TB) string {
	t.Helper()
	root := t.TempDir()
	WriteSchema(t, root, "simple", "user_profile", UserProfileSchema)
	WriteSchema(t, root, "medium", "shopping_cart", ShoppingCartSchema)
	return root
}

// WriteSchema writes one schema document under a tier directory.
func WriteSchema(t testing.TB, root, tier, id, body string) {
	t.Helper()
	dir := filepath.Join(root, tier)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create tier dir: %v", err)
	}
	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write schema %s: %v", id, err)
	}
}
