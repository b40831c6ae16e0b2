package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	"github.com/smallbiznis/storefront/internal/config"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/smallbiznis/storefront/internal/identity/session"
	"github.com/smallbiznis/storefront/internal/routegate"
	transitiondomain "github.com/smallbiznis/storefront/internal/transition/domain"
	"github.com/smallbiznis/storefront/pkg/db/pagination"
	"go.uber.org/zap"
)

type fakeModeService struct {
	active      modedomain.Mode
	modes       map[string]modedomain.Mode
	setCalls    int
	clearCalls  int
	lastMode    modedomain.Mode
	lastActor   string
	lastCleared string
}

func (f *fakeModeService) LoadModeForActor(ctx context.Context, actorKey string) (modedomain.Mode, error) {
	_ = ctx
	if mode, ok := f.modes[actorKey]; ok {
		return mode, nil
	}
	return f.active, nil
}

func (f *fakeModeService) SetMode(ctx context.Context, mode modedomain.Mode, actorKey string) error {
	_ = ctx
	f.setCalls++
	f.lastMode = mode
	f.lastActor = actorKey
	f.active = mode
	return nil
}

func (f *fakeModeService) ClearMode(ctx context.Context, actorKey string) error {
	_ = ctx
	f.clearCalls++
	f.lastCleared = actorKey
	f.active = modedomain.ModeNone
	return nil
}

func (f *fakeModeService) ActiveMode() modedomain.Mode { return f.active }
func (f *fakeModeService) IsRetail() bool              { return f.active == modedomain.ModeRetail }
func (f *fakeModeService) IsSubscription() bool        { return f.active == modedomain.ModeSubscription }
func (f *fakeModeService) IsFreemium() bool            { return f.active == modedomain.ModeFreemium }
func (f *fakeModeService) IsMulti() bool               { return f.active == modedomain.ModeMulti }

type fakeTransitionService struct {
	calls  int
	result transitiondomain.Result
	err    error
}

func (f *fakeTransitionService) SelectMode(ctx context.Context, actor identitydomain.Actor, mode modedomain.Mode) (transitiondomain.Result, error) {
	_ = ctx
	_ = actor
	_ = mode
	f.calls++
	if f.err != nil {
		return transitiondomain.Result{}, f.err
	}
	return f.result, nil
}

type fakeAuditService struct {
	records []string
}

func (f *fakeAuditService) Record(ctx context.Context, actorKey string, action string, metadata map[string]any) error {
	_ = ctx
	_ = actorKey
	_ = metadata
	f.records = append(f.records, action)
	return nil
}

func (f *fakeAuditService) List(ctx context.Context, actorKey string, page pagination.Pagination) ([]auditdomain.AuditLog, *pagination.PageInfo, error) {
	_ = ctx
	_ = actorKey
	_ = page
	return []auditdomain.AuditLog{}, &pagination.PageInfo{}, nil
}

type fakeAuthzService struct {
	err error
}

func (f *fakeAuthzService) Authorize(ctx context.Context, actor identitydomain.Actor, object, action string) error {
	_ = ctx
	_ = actor
	_ = object
	_ = action
	return f.err
}

type fakeIdentityService struct {
	actor     identitydomain.Actor
	byToken   map[string]identitydomain.Actor
	switchErr error
}

func (f *fakeIdentityService) Resolve(ctx context.Context, rawToken string) identitydomain.Actor {
	_ = ctx
	if actor, ok := f.byToken[rawToken]; ok {
		return actor
	}
	return f.actor
}

func (f *fakeIdentityService) SwitchDemoRole(actor identitydomain.Actor, role identitydomain.Role) (identitydomain.Actor, error) {
	if f.switchErr != nil {
		return identitydomain.Actor{}, f.switchErr
	}
	actor.Role = role
	return actor, nil
}

func (f *fakeIdentityService) ActorKey(profile identitydomain.Profile) string {
	return profile.ID
}

func actorInjector(actor identitydomain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextActorKey, actor)
		c.Next()
	}
}

func modeInjector(mode modedomain.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextModeKey, mode)
		c.Next()
	}
}

func newTestServer(mode *fakeModeService) (*Server, *fakeAuditService) {
	audit := &fakeAuditService{}
	return &Server{
		cfg:           config.Config{},
		log:           zap.NewNop(),
		sessions:      session.NewManager(config.Config{}),
		modeSvc:       mode,
		auditSvc:      audit,
		transitionSvc: &fakeTransitionService{},
		authzSvc:      &fakeAuthzService{},
	}, audit
}

func TestGetModeReturnsRequestMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(modeInjector(modedomain.ModeRetail))
	router.GET("/api/mode", srv.GetMode)

	req := httptest.NewRequest(http.MethodGet, "/api/mode", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body modeResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Mode != "retail" {
		t.Fatalf("expected mode retail, got %q", body.Mode)
	}
}

func TestPutModeRejectsUnknownMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mode := &fakeModeService{}
	srv, _ := newTestServer(mode)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(actorInjector(identitydomain.Actor{Key: "u-1", Authenticated: true}))
	router.PUT("/api/mode", srv.PutMode)

	req := httptest.NewRequest(http.MethodPut, "/api/mode", bytes.NewBufferString(`{"mode":"wholesale"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if mode.setCalls != 0 {
		t.Fatal("expected no mode write for unknown value")
	}
}

func TestPutModeRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.PUT("/api/mode", srv.RequireAuth(), srv.PutMode)

	req := httptest.NewRequest(http.MethodPut, "/api/mode", bytes.NewBufferString(`{"mode":"retail"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestSelectModeReturnsLanding(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})
	transition := &fakeTransitionService{result: transitiondomain.Result{
		Mode:    modedomain.ModeRetail,
		Landing: routegate.PathRetailHome,
	}}
	srv.transitionSvc = transition

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(actorInjector(identitydomain.Actor{Key: "u-1", Authenticated: true}))
	router.POST("/api/mode/select", srv.SelectMode)

	req := httptest.NewRequest(http.MethodPost, "/api/mode/select", bytes.NewBufferString(`{"mode":"retail"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body transitiondomain.Result
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Landing != routegate.PathRetailHome {
		t.Fatalf("expected landing %q, got %q", routegate.PathRetailHome, body.Landing)
	}
	if transition.calls != 1 {
		t.Fatalf("expected one transition call, got %d", transition.calls)
	}
}

func TestEvaluateGateRedirectsAnonymousToLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/gate/evaluate", srv.EvaluateGate)

	req := httptest.NewRequest(http.MethodGet, "/api/gate/evaluate?dest=/home", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decision routegate.Decision
	if err := json.Unmarshal(resp.Body.Bytes(), &decision); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decision.Outcome != routegate.OutcomeRedirectLogin {
		t.Fatalf("expected redirect_login, got %q", decision.Outcome)
	}
	if decision.ReturnTo != "/home" {
		t.Fatalf("expected return_to /home, got %q", decision.ReturnTo)
	}
}

func TestEvaluateGateRequiresDest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/gate/evaluate", srv.EvaluateGate)

	req := httptest.NewRequest(http.MethodGet, "/api/gate/evaluate", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestLogoutClearsModeAndWritesAudit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mode := &fakeModeService{active: modedomain.ModeSubscription}
	srv, audit := newTestServer(mode)

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(actorInjector(identitydomain.Actor{Key: "u-9", Authenticated: true}))
	router.POST("/auth/logout", srv.Logout)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if mode.clearCalls != 1 {
		t.Fatalf("expected one clear call, got %d", mode.clearCalls)
	}
	if mode.lastCleared != "u-9" {
		t.Fatalf("expected clear scoped to u-9, got %q", mode.lastCleared)
	}
	if len(audit.records) != 1 || audit.records[0] != auditdomain.ActionModeCleared {
		t.Fatalf("expected mode.cleared audit record, got %v", audit.records)
	}
}

func TestAdminAuditForbiddenWithoutGrant(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})
	srv.authzSvc = &fakeAuthzService{err: ErrForbidden}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(actorInjector(identitydomain.Actor{Key: "u-2", Authenticated: true, Role: identitydomain.RoleCustomer}))
	router.GET("/admin/audit", srv.RequireAdminArea(), srv.ListAuditLogs)

	req := httptest.NewRequest(http.MethodGet, "/admin/audit", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestAdvisorIntentRequiresText(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})
	srv.advisorSvc = nil // handler must validate before touching the service

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/advisor/intent", srv.AdvisorIntent)

	req := httptest.NewRequest(http.MethodPost, "/api/advisor/intent", bytes.NewBufferString(`{"text":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestEvaluateGateRejectsUnknownDestination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/gate/evaluate", srv.EvaluateGate)

	req := httptest.NewRequest(http.MethodGet, "/api/gate/evaluate?dest=/nowhere", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown destination, got %d", resp.Code)
	}
}

func TestInterleavedActorsKeepTheirOwnMode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mode := &fakeModeService{modes: map[string]modedomain.Mode{
		"actor-a": modedomain.ModeRetail,
		"actor-b": modedomain.ModeSubscription,
	}}
	srv, _ := newTestServer(mode)
	srv.identitySvc = &fakeIdentityService{byToken: map[string]identitydomain.Actor{
		"tok-a": {Key: "actor-a", Authenticated: true},
		"tok-b": {Key: "actor-b", Authenticated: true},
	}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(srv.ActorContext())
	router.GET("/api/mode", srv.GetMode)

	getMode := func(token string) string {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/mode", nil)
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.Code)
		}
		var body modeResponse
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return body.Mode
	}

	// B's request lands between two of A's; A must keep seeing retail.
	if got := getMode("tok-a"); got != "retail" {
		t.Fatalf("expected actor-a to see retail, got %q", got)
	}
	if got := getMode("tok-b"); got != "subscription" {
		t.Fatalf("expected actor-b to see subscription, got %q", got)
	}
	if got := getMode("tok-a"); got != "retail" {
		t.Fatalf("expected actor-a to still see retail after actor-b's request, got %q", got)
	}
}

func TestSwitchDemoRoleRejectsNonDemoActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, _ := newTestServer(&fakeModeService{})
	srv.identitySvc = &fakeIdentityService{switchErr: identitydomain.ErrNotDemoActor}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(actorInjector(identitydomain.Actor{Key: "u-3", Authenticated: true}))
	router.POST("/auth/demo/role", srv.SwitchDemoRole)

	req := httptest.NewRequest(http.MethodPost, "/auth/demo/role", bytes.NewBufferString(`{"role":"super_admin"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}
