package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Evgeniy2001Poluhin/learning-platform/core/user"
	"github.com/Evgeniy2001Poluhin/learning-platform/storage/database/dummy"
	"github.com/Evgeniy2001Poluhin/learning-platform/tests"
)

func TestUserPassword(t *testing.T) {
	var usr user.User
	if err := usr.SetPassword("S3cret!pass"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("S3cret!pass"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestUserRoles(t *testing.T) {
	tests := []struct {
		name    string
		roles   []string
		student bool
		teacher bool
		admin   bool
	}{
		{"student", []string{user.RoleStudent}, true, false, false},
		{"teacher", []string{user.RoleTeacher}, false, true, false},
		{"admin owner", []string{user.RoleAdminOwner}, false, false, true},
		{"all", user.AllRoles, true, true, true},
		{"none", nil, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := user.User{Roles: tt.roles}
			if got := usr.IsStudent(); got != tt.student {
				t.Errorf("IsStudent() = %v; want %v", got, tt.student)
			}
			if got := usr.IsTeacher(); got != tt.teacher {
				t.Errorf("IsTeacher() = %v; want %v", got, tt.teacher)
			}
			if got := usr.IsAdmin(); got != tt.admin {
				t.Errorf("IsAdmin() = %v; want %v", got, tt.admin)
			}
		})
	}
}

func TestNewUserValidate(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	svc := user.NewService(usrRepo, testutil.NopLogger{})
	ctx := context.Background()

	taken := testutil.CreateStudent(t, usrRepo, "takenname")

	tests := []struct {
		name    string
		nu      user.NewUser
		wantTag string // expected failing validation tag; empty means valid
	}{
		{
			name: "valid",
			nu:   user.NewUser{Name: "Amina", Username: "aminajohn", Email: "amina@test.io", Password: "G0od!pass", PasswordConfirm: "G0od!pass"},
		},
		{
			name:    "password too short",
			nu:      user.NewUser{Name: "Amina", Username: "aminajohn", Email: "amina@test.io", Password: "G0od!", PasswordConfirm: "G0od!"},
			wantTag: "pwdminlen",
		},
		{
			name:    "password all numeric",
			nu:      user.NewUser{Name: "Amina", Username: "aminajohn", Email: "amina@test.io", Password: "12345678", PasswordConfirm: "12345678"},
			wantTag: "pwdnotallnum",
		},
		{
			name:    "password lacks complexity",
			nu:      user.NewUser{Name: "Amina", Username: "aminajohn", Email: "amina@test.io", Password: "goodpass1", PasswordConfirm: "goodpass1"},
			wantTag: "pwdcplx",
		},
		{
			name:    "password similar to username",
			nu:      user.NewUser{Name: "Amina", Username: "aminajohn", Email: "amina@test.io", Password: "Amina-john1", PasswordConfirm: "Amina-john1"},
			wantTag: "pwdtoosim",
		},
		{
			name:    "password with whitespace",
			nu:      user.NewUser{Name: "Amina", Username: "aminajohn", Email: "amina@test.io", Password: "G0od! pass", PasswordConfirm: "G0od! pass"},
			wantTag: "pwdnospace",
		},
		{
			name:    "unknown role",
			nu:      user.NewUser{Name: "Amina", Username: "aminajohn", Email: "amina@test.io", Password: "G0od!pass", PasswordConfirm: "G0od!pass", Roles: []string{"pirate:"}},
			wantTag: "allroles",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(ctx, svc)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("Validate() failed: %v", err)
				}
				return
			}
			vErrs, ok := errors.Cause(err).(validator.ValidationErrors)
			if !ok {
				t.Fatalf("Validate() err = %v; want validator.ValidationErrors", err)
			}
			for _, vErr := range vErrs {
				if vErr.Tag() == tt.wantTag {
					return
				}
			}
			t.Errorf("Validate() errs = %v; want tag %q", vErrs, tt.wantTag)
		})
	}

	// uniqueness goes through the repo
	dup := user.NewUser{Name: "Taken", Username: taken.Username, Email: "other@test.io", Password: "G0od!pass", PasswordConfirm: "G0od!pass"}
	if err := dup.Validate(ctx, svc); err == nil {
		t.Error("Validate() accepted a taken username")
	}
}
