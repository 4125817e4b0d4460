package main

import (
	"testing"

	"github.com/mkele/darasa/core/user"
	"github.com/mkele/darasa/storage/kvstore"
	"github.com/mkele/darasa/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	// set up the store & repos
	db := testutil.OpenDB(t)
	usrRepo = kvstore.NewUserRepository(db)

	// start CLI
	return &commandLine{
		db:     db,
		usrSvc: user.NewService(usrRepo),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", user.RoleStudent, "mdr")

	type extra struct {
		pwd   string
		email string // expected email of the created user
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"adduser", "-name", "Awe"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-name", "Awe", "-email", "awe@test.cd"}, wantErr: errHelp},
		{
			name: "unknown role", args: []string{"adduser", "-name", "Awe", "-email", "awe@test.cd", "-role", "admin"},
			extra: extra{pwd: "lol"}, wantErrStr: `unknown role "admin"`,
		},
		{
			name: "email taken", args: []string{"adduser", "-name", "Hero2", "-email", "hero@test.cd"},
			extra: extra{pwd: "lol"}, wantErrStr: user.ErrEmailExists.Error(),
		},
		{
			name: "student created", args: []string{"adduser", "-name", "Awe", "-email", "awe@test.cd"},
			extra: extra{pwd: "lol", email: "awe@test.cd"},
		},
		{
			name: "teacher created", args: []string{"adduser", "-name", "King", "-email", "king@test.cd", "-role", user.RoleTeacher},
			extra: extra{pwd: "lmao", email: "king@test.cd"},
		},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				extra := tt.extra.(extra)
				usr, err := usrRepo.GetUserByEmail(extra.email)
				if err != nil {
					t.Fatalf("GetUserByEmail() failed: %v", err)
				}
				if usr.CheckPassword(extra.pwd) != nil {
					t.Error("failed to set password")
				}
			} else if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
				}
			} else {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	teacher, err := usrRepo.GetUserByEmail(kvstore.DemoTeacherEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail() failed: %v", err)
	}
	if err = teacher.CheckPassword(kvstore.DemoPassword); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}

	// seed replaces whatever is there
	testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", user.RoleStudent, "")
	if err = cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if _, err = usrRepo.GetUserByEmail("awe@test.cd"); err != user.ErrNotFound {
		t.Errorf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}
