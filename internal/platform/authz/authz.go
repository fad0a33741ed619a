// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz is the authorization engine of the YaMDb API.

A request is evaluated in two stages:

  - Collection stage: [Policy.Check] runs before anything is fetched. Only the
    actor and the HTTP method are known.
  - Object stage: [Policy.CheckObject] runs after the target is loaded, when its
    owner is known.

A [Policy] is an OR of [Permission] values. The collection stage passes when any
permission passes it. The object stage passes when some permission passes both
its collection and its object predicate.

Denials are reported as apperr.Unauthorized for anonymous actors and as
apperr.Forbidden for authenticated ones.
*/
package authz

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Actor

// Actor is the identity a decision is made for. A nil *Actor is anonymous.
type Actor struct {
	UserID      string
	Username    string
	Role        sec.UserRole
	IsSuperuser bool
}

// FromClaims builds an [Actor] from verified token claims.
// It returns nil for nil claims.
func FromClaims(claims *sec.AuthClaims) *Actor {
	if claims == nil {
		return nil
	}
	return &Actor{
		UserID:      claims.UserID,
		Username:    claims.Username,
		Role:        claims.Role,
		IsSuperuser: claims.IsSuperuser,
	}
}

// Authenticated reports whether the actor is a logged-in user.
func (actor *Actor) Authenticated() bool {
	return actor != nil && actor.UserID != ""
}

// IsAdmin reports whether the actor holds the admin role. The superuser flag
// does not count here; see [Actor.CanManageUsers].
func (actor *Actor) IsAdmin() bool {
	return actor.Authenticated() && actor.Role == sec.RoleAdmin
}

// CanManageUsers reports whether the actor may administer accounts: the admin
// role or the superuser flag.
func (actor *Actor) CanManageUsers() bool {
	return actor.IsAdmin() || (actor.Authenticated() && actor.IsSuperuser)
}

// IsModerator reports whether the actor holds exactly the moderator role.
func (actor *Actor) IsModerator() bool {
	return actor.Authenticated() && actor.Role == sec.RoleModerator
}

// IsSafeMethod reports whether method never mutates state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// # Permissions

// Permission is a single capability predicate.
type Permission interface {
	// HasPermission is the collection-level predicate.
	HasPermission(actor *Actor, method string) bool
	// HasObjectPermission is the object-level predicate. ownerID is the
	// target's author, or empty when the resource has no owner.
	HasObjectPermission(actor *Actor, method string, ownerID string) bool
}

type readOnly struct{}

func (readOnly) HasPermission(_ *Actor, method string) bool { return IsSafeMethod(method) }
func (readOnly) HasObjectPermission(_ *Actor, method string, _ string) bool {
	return IsSafeMethod(method)
}

type isAuthor struct{}

func (isAuthor) HasPermission(actor *Actor, _ string) bool { return actor.Authenticated() }
func (isAuthor) HasObjectPermission(actor *Actor, _ string, ownerID string) bool {
	return actor.Authenticated() && ownerID != "" && actor.UserID == ownerID
}

type isModerator struct{}

func (isModerator) HasPermission(actor *Actor, _ string) bool { return actor.IsModerator() }
func (isModerator) HasObjectPermission(actor *Actor, _ string, _ string) bool {
	return actor.IsModerator()
}

type isAdmin struct{}

func (isAdmin) HasPermission(actor *Actor, _ string) bool { return actor.IsAdmin() }
func (isAdmin) HasObjectPermission(actor *Actor, _ string, _ string) bool {
	return actor.IsAdmin()
}

type adminOnly struct{}

func (adminOnly) HasPermission(actor *Actor, _ string) bool { return actor.CanManageUsers() }

// Object level defaults to allow once the collection stage has passed.
func (adminOnly) HasObjectPermission(_ *Actor, _ string, _ string) bool { return true }

var (
	// ReadOnly allows safe methods for everyone, including anonymous actors.
	ReadOnly Permission = readOnly{}
	// IsAuthor allows authenticated actors and, on objects, only the owner.
	IsAuthor Permission = isAuthor{}
	// IsModerator allows the moderator role.
	IsModerator Permission = isModerator{}
	// IsAdmin allows the admin role only.
	IsAdmin Permission = isAdmin{}
	// AdminOnly guards user management and also accepts the superuser flag.
	AdminOnly Permission = adminOnly{}
)

// # Policies

// Policy is a named OR-combination of permissions.
type Policy struct {
	Name        string
	Permissions []Permission
}

// Any builds a policy that passes when any of permissions passes.
func Any(name string, permissions ...Permission) Policy {
	return Policy{Name: name, Permissions: permissions}
}

var (
	// Content guards reviews and comments.
	Content = Any("content", ReadOnly, IsAuthor, IsModerator, IsAdmin)
	// Catalog guards categories, genres and titles.
	Catalog = Any("catalog", ReadOnly, IsAdmin)
	// UserAdmin guards the user management endpoints.
	UserAdmin = Any("user_admin", AdminOnly)
	// Authenticated only requires a logged-in actor.
	Authenticated = Any("authenticated", IsAuthor)
)

// Allows evaluates the collection stage.
func (policy Policy) Allows(actor *Actor, method string) bool {
	for _, permission := range policy.Permissions {
		if permission.HasPermission(actor, method) {
			return true
		}
	}
	return false
}

// AllowsObject evaluates the object stage for a target owned by ownerID.
func (policy Policy) AllowsObject(actor *Actor, method string, ownerID string) bool {
	for _, permission := range policy.Permissions {
		if permission.HasPermission(actor, method) && permission.HasObjectPermission(actor, method, ownerID) {
			return true
		}
	}
	return false
}

// Check runs the collection stage and returns a typed error on denial.
func (policy Policy) Check(actor *Actor, method string) error {
	if policy.Allows(actor, method) {
		return nil
	}
	return policy.deny(actor, "collection")
}

// CheckObject runs the object stage and returns a typed error on denial.
func (policy Policy) CheckObject(actor *Actor, method string, ownerID string) error {
	if policy.AllowsObject(actor, method, ownerID) {
		return nil
	}
	return policy.deny(actor, "object")
}

func (policy Policy) deny(actor *Actor, stage string) error {
	metrics.AuthzDeniedTotal.WithLabelValues(policy.Name, stage).Inc()
	if !actor.Authenticated() {
		return apperr.Unauthorized("Authentication credentials were not provided")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
