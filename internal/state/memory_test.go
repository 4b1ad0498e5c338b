package state

import (
	"context"
	"testing"

	"github.com/Gunvolt24/printshop_console/internal/domain"
)

func TestMemoryStore_UserRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := s.LoadUser(ctx, "sid"); ok || err != nil {
		t.Fatalf("empty store must report no user, got ok=%v err=%v", ok, err)
	}

	in := domain.Credential{ID: 1, Usuario: "admin", Password: "secret", Cargo: domain.RoleAdmin, Formatos: []string{"ticket"}}
	if err := s.SaveUser(ctx, "sid", in); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got, ok, err := s.LoadUser(ctx, "sid")
	if err != nil || !ok {
		t.Fatalf("LoadUser: ok=%v err=%v", ok, err)
	}
	if got.Password != "" || got.Usuario != "admin" {
		t.Fatalf("stored record must keep fields but drop password: %+v", got)
	}

	// изменение возвращённого среза не влияет на хранимую запись
	got.Formatos[0] = "factura"
	again, _, _ := s.LoadUser(ctx, "sid")
	if again.Formatos[0] != "ticket" {
		t.Fatalf("stored formatos must not be shared with callers")
	}
}

func TestMemoryStore_ThemeDefaultAndClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if th, _ := s.LoadTheme(ctx, "sid"); th != domain.ThemeSystem {
		t.Fatalf("default theme must be system, got %q", th)
	}
	_ = s.SaveTheme(ctx, "sid", domain.ThemeDark)
	_ = s.SaveUser(ctx, "sid", domain.Credential{Usuario: "u"})
	if th, _ := s.LoadTheme(ctx, "sid"); th != domain.ThemeDark {
		t.Fatalf("want dark, got %q", th)
	}

	if err := s.Clear(ctx, "sid"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := s.LoadUser(ctx, "sid"); ok {
		t.Fatalf("user must be gone after clear")
	}
	if th, _ := s.LoadTheme(ctx, "sid"); th != domain.ThemeSystem {
		t.Fatalf("theme must reset after clear, got %q", th)
	}
}
