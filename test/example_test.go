package test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goToken "github.com/MrEthical07/goToken"
	"github.com/MrEthical07/goToken/middleware"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Example_lifecycle builds a manager and rotates a refresh token once.
func Example_lifecycle() {
	mr, _ := miniredis.Run()
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	m, err := goToken.New().
		WithRedis(rdb).
		WithSigningKey([]byte("example-signing-key-0123456789abcdef")).
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer m.Close()

	ctx := context.Background()
	pair, _ := m.Issue(ctx, 42)
	claims, _ := m.VerifyAccess(ctx, pair.AccessToken)
	fmt.Println("user:", claims.UserID)

	_, err = m.Refresh(ctx, pair.RefreshToken)
	fmt.Println("first refresh:", err == nil)
	_, err = m.Refresh(ctx, pair.RefreshToken)
	fmt.Println("replay rejected:", errors.Is(err, goToken.ErrInvalidToken))
	// Output:
	// user: 42
	// first refresh: true
	// replay rejected: true
}

// Example_statusForError shows how Manager errors map to HTTP statuses.
func Example_statusForError() {
	fmt.Println(middleware.StatusForError(goToken.ErrExpired) == http.StatusUnauthorized)
	fmt.Println(middleware.StatusForError(goToken.ErrStoreUnavailable) == http.StatusServiceUnavailable)
	// Output:
	// true
	// true
}
