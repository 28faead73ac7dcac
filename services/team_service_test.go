package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/cup-site/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTeamService_CreateTeam(t *testing.T) {
	repo := &fakeTeamRepo{}
	svc := NewTeamService(repo, nil, discardLogger())

	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{Name: "  Royal Strikers ", Captain: strPtr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "Royal Strikers", team.Name)
	assert.Equal(t, "royal-strikers", team.Slug)
	assert.Equal(t, models.DefaultTeamColor, team.Color)
	assert.Nil(t, team.Captain)
	assert.Equal(t, "RS", team.Initials)
	assert.NotZero(t, team.ID)
}

func TestTeamService_CreateTeamValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTeamInput
		wantErr error
	}{
		{"empty name", CreateTeamInput{Name: "   "}, ErrTeamNameRequired},
		{"name without slug", CreateTeamInput{Name: "!!!"}, ErrValidationFailed},
		{"bad color", CreateTeamInput{Name: "Alpha", Color: "orange"}, ErrValidationFailed},
		{"short hex is fine but five digits is not", CreateTeamInput{Name: "Alpha", Color: "#12345"}, ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTeamService(&fakeTeamRepo{}, nil, discardLogger())
			_, err := svc.CreateTeam(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTeamService_DuplicateNamesRejected(t *testing.T) {
	repo := &fakeTeamRepo{teams: teamsNamed("Alpha", "Beta")}
	svc := NewTeamService(repo, nil, discardLogger())
	ctx := context.Background()

	_, err := svc.CreateTeam(ctx, CreateTeamInput{Name: "Alpha"})
	assert.ErrorIs(t, err, ErrTeamNameConflict)

	_, err = svc.UpdateTeam(ctx, 2, UpdateTeamInput{Name: strPtr("Alpha")})
	assert.ErrorIs(t, err, ErrTeamNameConflict)
}

func TestTeamService_UpdateTeam(t *testing.T) {
	repo := &fakeTeamRepo{teams: teamsNamed("Alpha")}
	svc := NewTeamService(repo, nil, discardLogger())

	team, err := svc.UpdateTeam(context.Background(), 1, UpdateTeamInput{
		Name:    strPtr("Alpha Wolves"),
		Captain: strPtr(" Sam "),
		Color:   strPtr("#0af"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alpha-wolves", team.Slug)
	require.NotNil(t, team.Captain)
	assert.Equal(t, "Sam", *team.Captain)
	assert.Equal(t, "#0af", team.Color)

	_, err = svc.UpdateTeam(context.Background(), 42, UpdateTeamInput{})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamService_UploadLogo(t *testing.T) {
	oldKey := "teams/1/old.png"
	teams := teamsNamed("Alpha")
	teams[0].LogoKey = &oldKey
	repo := &fakeTeamRepo{teams: teams}
	uploader := &fakeUploader{}
	svc := NewTeamService(repo, uploader, discardLogger())
	ctx := context.Background()

	team, err := svc.UploadLogo(ctx, 1, "Crest.PNG", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, uploader.uploaded, 1)
	assert.True(t, strings.HasPrefix(uploader.uploaded[0], "teams/1/"))
	assert.True(t, strings.HasSuffix(uploader.uploaded[0], ".png"))
	assert.Equal(t, []string{oldKey}, uploader.deleted)
	require.NotNil(t, team.LogoURL)
	assert.Equal(t, uploader.URL(uploader.uploaded[0]), *team.LogoURL)

	_, err = svc.UploadLogo(ctx, 1, "notes.txt", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrValidationFailed)

	uploader.uploadErr = errors.New("bucket unreachable")
	_, err = svc.UploadLogo(ctx, 1, "crest.png", "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrLogoUploadFailed)
}

func TestTeamService_UploadLogoDisabled(t *testing.T) {
	svc := NewTeamService(&fakeTeamRepo{teams: teamsNamed("Alpha")}, nil, discardLogger())
	_, err := svc.UploadLogo(context.Background(), 1, "crest.png", "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrLogoUploadDisabled)
}

func TestTeamService_DeleteTeamRemovesLogo(t *testing.T) {
	key := "teams/1/logo.png"
	teams := teamsNamed("Alpha")
	teams[0].LogoKey = &key
	uploader := &fakeUploader{}
	svc := NewTeamService(&fakeTeamRepo{teams: teams}, uploader, discardLogger())

	require.NoError(t, svc.DeleteTeam(context.Background(), 1))
	assert.Equal(t, []string{key}, uploader.deleted)
	assert.ErrorIs(t, svc.DeleteTeam(context.Background(), 1), ErrTeamNotFound)
}

func TestPlayerService(t *testing.T) {
	repo := &fakePlayerRepo{}
	svc := NewPlayerService(repo)
	ctx := context.Background()

	_, err := svc.CreatePlayer(ctx, CreatePlayerInput{Name: " "})
	assert.ErrorIs(t, err, ErrPlayerNameRequired)
	_, err = svc.CreatePlayer(ctx, CreatePlayerInput{Name: "Ana", BasePrice: -1})
	assert.ErrorIs(t, err, ErrValidationFailed)

	player, err := svc.CreatePlayer(ctx, CreatePlayerInput{Name: " Ana ", Team: " Alpha ", BasePrice: 10})
	require.NoError(t, err)
	assert.Equal(t, "Ana", player.Name)
	assert.Equal(t, "Alpha", player.Team)
	assert.Equal(t, models.AuctionAvailable, player.AuctionStatus)

	updated, err := svc.UpdatePlayer(ctx, player.ID, UpdatePlayerInput{Team: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Team)

	require.NoError(t, svc.DeletePlayer(ctx, player.ID))
	_, err = svc.GetPlayerByID(ctx, player.ID)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}
