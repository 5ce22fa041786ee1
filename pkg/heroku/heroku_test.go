package heroku

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/variantdev/heroku-deploy/pkg/cmdsite"
)

func in(name string, args ...string) cmdsite.CommandInput {
	return cmdsite.NewInput(name, args, nil).In("/repo")
}

func TestBindRemote_Attached(t *testing.T) {
	rec := cmdsite.NewRecorder(map[cmdsite.CommandInput]cmdsite.CommandOutput{
		in("heroku", "git:remote", "--app", "myapp", "--remote", "heroku"): {Stdout: "set git remote heroku to https://git.heroku.com/myapp.git\n"},
	})

	c := New(WD("/repo"), Commander(rec.RunCommand))

	for i := 0; i < 2; i++ {
		if err := c.BindRemote("myapp", BindOptions{Remote: "heroku"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	expected := []string{
		"heroku git:remote --app myapp --remote heroku",
		"heroku git:remote --app myapp --remote heroku",
	}
	if diff := cmp.Diff(expected, rec.Commands()); diff != "" {
		t.Errorf("unexpected commands (-expected +got):\n%s", diff)
	}
}

func TestBindRemote_Creates(t *testing.T) {
	rec := cmdsite.NewRecorder(map[cmdsite.CommandInput]cmdsite.CommandOutput{
		in("heroku", "create", "myapp", "--buildpack", "heroku/go", "--region", "eu", "--team", "acme"): {},
	})

	// git:remote fails until the app has been created
	created := false
	runCmd := func(name string, args []string, dir string, stdout, stderr io.Writer, env map[string]string) error {
		if args[0] != "git:remote" {
			err := rec.RunCommand(name, args, dir, stdout, stderr, env)
			created = err == nil
			return err
		}
		rec.Calls = append(rec.Calls, cmdsite.Call{Name: name, Args: args, Dir: dir})
		if !created {
			return &cmdsite.CommandError{Name: name, Args: args, ExitStatus: 1}
		}
		return nil
	}

	c := New(WD("/repo"), Commander(runCmd))

	err := c.BindRemote("myapp", BindOptions{
		Remote: "heroku",
		Create: CreateOptions{Buildpack: "heroku/go", Region: "eu", Team: "acme"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"heroku git:remote --app myapp --remote heroku",
		"heroku create myapp --buildpack heroku/go --region eu --team acme",
		"heroku git:remote --app myapp --remote heroku",
	}
	if diff := cmp.Diff(expected, rec.Commands()); diff != "" {
		t.Errorf("unexpected commands (-expected +got):\n%s", diff)
	}
}

func TestBindRemote_DontAutoCreate(t *testing.T) {
	rec := cmdsite.NewRecorder(map[cmdsite.CommandInput]cmdsite.CommandOutput{
		in("heroku", "git:remote", "--app", "missing", "--remote", "heroku"): {Stderr: "Couldn't find that app.\n", ExitStatus: 1},
	})

	c := New(WD("/repo"), Commander(rec.RunCommand))

	err := c.BindRemote("missing", BindOptions{Remote: "heroku", DontAutoCreate: true})

	var cmdErr *cmdsite.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected the attach failure to be returned unchanged, got %T: %v", err, err)
	}
	if cmdErr.Args[0] != "git:remote" {
		t.Errorf("unexpected failing command: %v", cmdErr)
	}

	if len(rec.Calls) != 1 {
		t.Errorf("unexpected number of commands: expected=1, got=%d: %v", len(rec.Calls), rec.Commands())
	}
}

func TestContainerCommands(t *testing.T) {
	push := cmdsite.NewInput("heroku", []string{"container:push", "web", "--app", "myapp", "--arg", "A=1,B=2"}, nil)
	release := cmdsite.NewInput("heroku", []string{"container:release", "web", "--app", "myapp"}, nil)

	rec := cmdsite.NewRecorder(map[cmdsite.CommandInput]cmdsite.CommandOutput{
		in("heroku", "stack:set", "container", "--app", "myapp"): {},
		push.In("/repo/api"):    {},
		release.In("/repo/api"): {},
	})

	c := New(WD("/repo"), Commander(rec.RunCommand))

	if err := c.StackSet("myapp", ContainerStack); err != nil {
		t.Fatal(err)
	}

	app := c.In("/repo/api")

	if err := app.ContainerPush("myapp", "web", []string{"A=1", "B=2"}); err != nil {
		t.Fatal(err)
	}

	if err := app.ContainerRelease("myapp", "web"); err != nil {
		t.Fatal(err)
	}
}
