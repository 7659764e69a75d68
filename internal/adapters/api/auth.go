package api

import (
	"MasarWeb/internal/core/ports"
	"context"
	"net/http"
)

func (c *Client) authenticate(ctx context.Context, path string, in any) (*ports.AuthResult, error) {
	env, err := call[ports.AuthResult](ctx, c, http.MethodPost, path, in)
	if err != nil {
		return nil, err
	}
	res := env.Data
	res.Message = env.Message
	return &res, nil
}

func (c *Client) RegisterTeacher(ctx context.Context, in ports.TeacherRegistration) (*ports.AuthResult, error) {
	return c.authenticate(ctx, "/auth/register/teacher", in)
}

func (c *Client) RegisterSchool(ctx context.Context, in ports.SchoolRegistration) (*ports.AuthResult, error) {
	return c.authenticate(ctx, "/auth/register/school", in)
}

func (c *Client) LoginTeacher(ctx context.Context, in ports.Credentials) (*ports.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login/teacher", in)
}

func (c *Client) LoginSchool(ctx context.Context, in ports.Credentials) (*ports.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login/school", in)
}

func (c *Client) LoginAdmin(ctx context.Context, in ports.AdminCredentials) (*ports.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login/admin", in)
}
