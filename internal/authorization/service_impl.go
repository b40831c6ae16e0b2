package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectAdminArea  = "admin_area"
	ObjectAuditLog   = "audit_log"
	ObjectModePolicy = "mode_policy"
)

const (
	ActionAdminAreaAccess = "admin_area.access"
	ActionAuditLogView    = "audit_log.view"
	ActionModePolicyEdit  = "mode_policy.edit"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor identitydomain.Actor, object, action string) error {
	if !actor.Authenticated || strings.TrimSpace(actor.Key) == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%s", strings.TrimSpace(actor.Key))
	roleName := fmt.Sprintf("role:%s", strings.ToLower(string(actor.Role)))
	if err := s.ensureGrouping(subject, roleName); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, actor.Key, object, action)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps the subject bound to exactly its current role, so a
// demo role switch takes effect on the next check.
func (s *ServiceImpl) ensureGrouping(subject, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, actorKey, object, action string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, actorKey, auditdomain.ActionGateDenied, map[string]any{
		"object": object,
		"action": action,
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		{"role:organization_admin", ObjectAdminArea, ActionAdminAreaAccess},
		{"role:organization_admin", ObjectAuditLog, ActionAuditLogView},

		{"role:super_admin", ObjectAdminArea, ActionAdminAreaAccess},
		{"role:super_admin", ObjectAuditLog, ActionAuditLogView},
		{"role:super_admin", ObjectModePolicy, ActionModePolicyEdit},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
