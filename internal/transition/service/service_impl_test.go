package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	moderepository "github.com/smallbiznis/storefront/internal/businessmode/repository"
	modeservice "github.com/smallbiznis/storefront/internal/businessmode/service"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/smallbiznis/storefront/internal/routegate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestTransition(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&modedomain.ModeRecord{}))

	modes := modeservice.New(modeservice.Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: moderepository.Provide(),
	})
	svc := New(Params{Log: zap.NewNop(), Modes: modes})
	return svc.(*Service), db
}

func countRecords(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&modedomain.ModeRecord{}).Count(&count).Error)
	return count
}

func TestSelectModePersistsAndResolvesLanding(t *testing.T) {
	svc, _ := newTestTransition(t)
	actor := identitydomain.Actor{Key: "u1", Authenticated: true, Role: identitydomain.RoleCustomer}

	result, err := svc.SelectMode(context.Background(), actor, modedomain.ModeRetail)
	require.NoError(t, err)
	assert.Equal(t, modedomain.ModeRetail, result.Mode)
	assert.Equal(t, routegate.PathRetailHome, result.Landing)
	assert.Equal(t, modedomain.ModeRetail, svc.modes.ActiveMode())
}

func TestSelectModeIsIdempotent(t *testing.T) {
	svc, db := newTestTransition(t)
	actor := identitydomain.Actor{Key: "u1", Authenticated: true, Role: identitydomain.RoleCustomer}
	ctx := context.Background()

	first, err := svc.SelectMode(ctx, actor, modedomain.ModeSubscription)
	require.NoError(t, err)
	second, err := svc.SelectMode(ctx, actor, modedomain.ModeSubscription)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, countRecords(t, db))

	mode, err := svc.modes.LoadModeForActor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, modedomain.ModeSubscription, mode)
}

func TestSelectModeAdminTierLandsOnAdminDashboard(t *testing.T) {
	svc, _ := newTestTransition(t)
	actor := identitydomain.Actor{Key: "admin1", Authenticated: true, Role: identitydomain.RoleOrgAdmin}

	result, err := svc.SelectMode(context.Background(), actor, modedomain.ModeMulti)
	require.NoError(t, err)
	assert.Equal(t, routegate.PathAdmin, result.Landing)
}

func TestSelectModeRejectsNone(t *testing.T) {
	svc, _ := newTestTransition(t)
	actor := identitydomain.Actor{Key: "u1", Authenticated: true}

	_, err := svc.SelectMode(context.Background(), actor, modedomain.ModeNone)
	assert.ErrorIs(t, err, modedomain.ErrInvalidMode)
}
