package netrc

import (
	"testing"

	"github.com/twpayne/go-vfs/vfst"
)

const expected = `machine api.heroku.com
  login me@example.com
  password secret
machine git.heroku.com
  login me@example.com
  password secret
`

func TestWrite(t *testing.T) {
	fs, clean, err := vfst.NewTestFS(map[string]interface{}{
		"/home/user": &vfst.Dir{Perm: 0755},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer clean()

	path := DefaultPath("/home/user")
	if err := Write(fs, path, "me@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	vfst.RunTests(t, fs, "netrc",
		vfst.TestPath("/home/user/.netrc",
			vfst.TestModeIsRegular,
			vfst.TestModePerm(0600),
			vfst.TestContentsString(expected),
		),
	)
}

func TestWrite_OverwritesAndRestricts(t *testing.T) {
	fs, clean, err := vfst.NewTestFS(map[string]interface{}{
		"/home/user/.netrc": &vfst.File{
			Perm:     0644,
			Contents: []byte("machine example.com login old password old\n"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer clean()

	if err := Write(fs, "/home/user/.netrc", "me@example.com", "secret"); err != nil {
		t.Fatal(err)
	}

	vfst.RunTests(t, fs, "netrc",
		vfst.TestPath("/home/user/.netrc",
			vfst.TestModePerm(0600),
			vfst.TestContentsString(expected),
		),
	)
}

func TestWrite_Unwritable(t *testing.T) {
	fs, clean, err := vfst.NewTestFS(map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	defer clean()

	if err := Write(fs, "/does/not/exist/.netrc", "me@example.com", "secret"); err == nil {
		t.Error("expected an error when the parent directory is missing")
	}
}
