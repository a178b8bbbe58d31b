package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/keepsake/internal/client/auth"
)

func TestCli_runLogin_Success(t *testing.T) {
	expires := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	session := &SessionMock{
		LoginFunc: func(ctx context.Context, token string) (*auth.Session, error) {
			return &auth.Session{Token: token, Scope: "alice", ExpiresAt: expires}, nil
		},
	}
	cli, _, out := newTestCli(nil, session)

	err := cli.runLogin(context.Background(), []string{"header.payload.sig"})
	require.NoError(t, err)

	require.Len(t, session.LoginCalls(), 1)
	assert.Equal(t, "header.payload.sig", session.LoginCalls()[0].Token)
	assert.Contains(t, out.String(), "Login successful")
	assert.Contains(t, out.String(), "Scope: alice")
	assert.Contains(t, out.String(), "2026-04-01T00:00:00Z")
}

func TestCli_runLogin_NoExpiry(t *testing.T) {
	session := &SessionMock{
		LoginFunc: func(ctx context.Context, token string) (*auth.Session, error) {
			return &auth.Session{Token: token, Scope: "alice"}, nil
		},
	}
	cli, _, out := newTestCli(nil, session)

	require.NoError(t, cli.runLogin(context.Background(), []string{"tok"}))
	assert.Contains(t, out.String(), "Token expires: never")
}

func TestCli_runLogin_Rejected(t *testing.T) {
	session := &SessionMock{
		LoginFunc: func(ctx context.Context, token string) (*auth.Session, error) {
			return nil, auth.ErrTokenExpired
		},
	}
	cli, _, _ := newTestCli(nil, session)

	err := cli.runLogin(context.Background(), []string{"tok"})
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestCli_runLogin_TooManyArgs(t *testing.T) {
	cli, _, _ := newTestCli(nil, &SessionMock{})

	err := cli.runLogin(context.Background(), []string{"a", "b"})
	assert.ErrorContains(t, err, "too many arguments")
}

func TestCli_runLogout(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
		wantErr   bool
	}{
		{name: "success"},
		{name: "storage failure", logoutErr: errors.New("disk full"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &SessionMock{
				LogoutFunc: func(ctx context.Context) error { return tt.logoutErr },
			}
			cli, _, out := newTestCli(nil, session)

			err := cli.runLogout(context.Background())
			if tt.wantErr {
				assert.ErrorContains(t, err, "logout failed")
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Logout successful")
			assert.Len(t, session.LogoutCalls(), 1)
		})
	}
}
