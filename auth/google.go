package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

var ErrGoogleDisabled = errors.New("google sign-in is not configured")

// GoogleProfile is what a verified Google ID token tells us about the user.
type GoogleProfile struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleProfile, error)
}

// FirebaseVerifier checks Google ID tokens minted by Firebase Auth.
type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

func NewFirebaseVerifier(ctx context.Context, credentialsJSON, projectID string) (*FirebaseVerifier, error) {
	if credentialsJSON == "" || projectID == "" {
		return nil, ErrGoogleDisabled
	}

	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*GoogleProfile, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if token.Audience != v.projectID {
		return nil, fmt.Errorf("%w: audience %q", ErrInvalidToken, token.Audience)
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: email not found in token", ErrInvalidToken)
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	return &GoogleProfile{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}
