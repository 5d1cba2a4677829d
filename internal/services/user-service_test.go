package services

import (
	"strings"
	"testing"

	"github.com/yulclaims/claim_service/internal/domain"
	"github.com/yulclaims/claim_service/internal/dto"
	"github.com/yulclaims/claim_service/internal/helper"
)

type userFixture struct {
	repo        *fakeUserRepo
	consentRepo *fakeConsentRepo
	audit       *fakeAuditRepo
	consents    *fakeConsentStore
	svc         UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		repo:        newFakeUserRepo(),
		consentRepo: &fakeConsentRepo{},
		audit:       &fakeAuditRepo{},
		consents:    &fakeConsentStore{valid: true},
	}
	f.svc = NewUserService(f.repo, f.consentRepo, f.audit, f.consents, helper.SetupAuth("test-secret"))
	return f
}

func validRegisterRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName:             "Marie",
		LastName:              "Tremblay",
		Email:                 "marie@example.com",
		Password:              "hunter22",
		TermsAccepted:         true,
		PrivacyAccepted:       true,
		DataRetentionAccepted: true,
	}
}

func TestRegister(t *testing.T) {
	t.Run("happy path writes rows and records", func(t *testing.T) {
		f := newUserFixture()
		if err := f.svc.Register(validRegisterRequest(), dto.RequestMeta{IPAddress: "10.0.0.1"}); err != nil {
			t.Fatalf("register: %v", err)
		}

		user, err := f.repo.FindUserByEmail("marie@example.com")
		if err != nil {
			t.Fatal("user was not created")
		}
		if user.Role != domain.RoleUser {
			t.Errorf("role = %s, want user", user.Role)
		}
		if user.PasswordHash == "hunter22" {
			t.Fatal("password stored in plaintext")
		}

		if len(f.consentRepo.rows) != 3 {
			t.Fatalf("consent rows = %d, want 3", len(f.consentRepo.rows))
		}
		if len(f.consents.records) != 3 {
			t.Fatalf("consent records = %d, want 3", len(f.consents.records))
		}
	})

	t.Run("marketing opt-in adds a fourth record", func(t *testing.T) {
		f := newUserFixture()
		req := validRegisterRequest()
		req.MarketingAccepted = true
		if err := f.svc.Register(req, dto.RequestMeta{}); err != nil {
			t.Fatalf("register: %v", err)
		}
		if len(f.consents.records) != 4 {
			t.Fatalf("consent records = %d, want 4", len(f.consents.records))
		}
	})

	t.Run("missing mandatory consent is rejected", func(t *testing.T) {
		f := newUserFixture()
		req := validRegisterRequest()
		req.DataRetentionAccepted = false
		if err := f.svc.Register(req, dto.RequestMeta{}); err == nil {
			t.Fatal("expected consent error")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		f := newUserFixture()
		if err := f.svc.Register(validRegisterRequest(), dto.RequestMeta{}); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if err := f.svc.Register(validRegisterRequest(), dto.RequestMeta{}); err == nil {
			t.Fatal("expected duplicate email error")
		}
	})

	t.Run("short password is rejected", func(t *testing.T) {
		f := newUserFixture()
		req := validRegisterRequest()
		req.Password = "abc"
		if err := f.svc.Register(req, dto.RequestMeta{}); err == nil {
			t.Fatal("expected password error")
		}
	})

	t.Run("mandatory consent record failure is fatal", func(t *testing.T) {
		f := newUserFixture()
		f.consents.failOnType = domain.ConsentPrivacy
		if err := f.svc.Register(validRegisterRequest(), dto.RequestMeta{}); err == nil {
			t.Fatal("registration must fail when a mandatory record cannot be written")
		}
	})

	t.Run("marketing record failure is tolerated", func(t *testing.T) {
		f := newUserFixture()
		f.consents.failOnType = domain.ConsentMarketing
		req := validRegisterRequest()
		req.MarketingAccepted = true
		if err := f.svc.Register(req, dto.RequestMeta{}); err != nil {
			t.Fatalf("marketing record failure must not fail registration: %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	f := newUserFixture()
	if err := f.svc.Register(validRegisterRequest(), dto.RequestMeta{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := f.svc.Login(dto.LoginRequest{Email: "Marie@Example.com", Password: "hunter22"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if user.Email != "marie@example.com" {
			t.Errorf("email = %s", user.Email)
		}
		if strings.Count(token, ".") != 2 {
			t.Errorf("token %q is not a JWT", token)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, err := f.svc.Login(dto.LoginRequest{Email: "marie@example.com", Password: "wrong"}); err == nil {
			t.Fatal("expected credential error")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, _, err := f.svc.Login(dto.LoginRequest{Email: "nobody@example.com", Password: "hunter22"}); err == nil {
			t.Fatal("expected credential error")
		}
	})
}

func TestSetRole(t *testing.T) {
	f := newUserFixture()
	if err := f.svc.Register(validRegisterRequest(), dto.RequestMeta{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	user, _ := f.repo.FindUserByEmail("marie@example.com")

	t.Run("promote to junior admin", func(t *testing.T) {
		if err := f.svc.SetRole(99, user.ID, domain.RoleJuniorAdmin); err != nil {
			t.Fatalf("set role: %v", err)
		}
		updated, _ := f.repo.FindUserById(user.ID)
		if updated.Role != domain.RoleJuniorAdmin {
			t.Fatalf("role = %s", updated.Role)
		}
		if len(f.audit.entries) != 1 || f.audit.entries[0].Action != "user.role_changed" {
			t.Fatalf("audit entries = %+v", f.audit.entries)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		if err := f.svc.SetRole(99, user.ID, "emperor"); err == nil {
			t.Fatal("expected role error")
		}
	})

	t.Run("own role", func(t *testing.T) {
		if err := f.svc.SetRole(user.ID, user.ID, domain.RoleSeniorAdmin); err == nil {
			t.Fatal("admins must not change their own role")
		}
	})
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		have, want string
		ok         bool
	}{
		{domain.RoleSeniorAdmin, domain.RoleJuniorAdmin, true},
		{domain.RoleJuniorAdmin, domain.RoleJuniorAdmin, true},
		{domain.RoleUser, domain.RoleJuniorAdmin, false},
		{domain.RoleJuniorAdmin, domain.RoleSeniorAdmin, false},
	}
	for _, tc := range tests {
		if got := domain.RoleAtLeast(tc.have, tc.want); got != tc.ok {
			t.Errorf("RoleAtLeast(%s, %s) = %v, want %v", tc.have, tc.want, got, tc.ok)
		}
	}
}
