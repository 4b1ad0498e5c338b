// Package auth — вход в консоль по учётным записям удалённого хранилища и видимость меню по роли.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
)

// ErrInvalidCredentials — пользователь не найден или пароль не совпал.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator — проверка пары usuario/password по списку учётных записей.
type Authenticator struct {
	store ports.CredentialStore
	log   ports.Logger
}

func NewAuthenticator(store ports.CredentialStore, log ports.Logger) *Authenticator {
	return &Authenticator{store: store, log: log}
}

// Login — найденная запись без пароля. Пустые поля отклоняются до обращения к хранилищу.
func (a *Authenticator) Login(ctx context.Context, usuario, password string) (domain.Credential, error) {
	usuario = strings.TrimSpace(usuario)

	errs := make(map[string]string)
	if usuario == "" {
		errs["usuario"] = "usuario обязателен"
	}
	if password == "" {
		errs["password"] = "password обязателен"
	}
	if len(errs) > 0 {
		return domain.Credential{}, &domain.ValidationError{Fields: errs}
	}

	creds, err := a.store.List(ctx)
	if err != nil {
		a.log.Errorf(ctx, "credentials list failed err=%v", err)
		return domain.Credential{}, fmt.Errorf("load credentials: %w", err)
	}

	for _, c := range creds {
		if c.Usuario != usuario {
			continue
		}
		if c.Password != password {
			break
		}
		c.Password = ""
		a.log.Infof(ctx, "login ok usuario=%s cargo=%s", c.Usuario, c.Cargo)
		return c, nil
	}

	a.log.Warnf(ctx, "login rejected usuario=%s", usuario)
	return domain.Credential{}, ErrInvalidCredentials
}
