package wasm

import (
	"io"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	experimentalsys "github.com/tetratelabs/wazero/experimental/sys"
)

func TestGuestFSWriteRoundTrip(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fsys := memfs.New()
	gfs := newGuestFS(fsys)

	f, errno := gfs.OpenFile("out/a.ts", experimentalsys.O_RDWR|experimentalsys.O_CREAT|experimentalsys.O_TRUNC, 0o600)
	require.Zero(errno)

	n, errno := f.Write([]byte("hello world"))
	require.Zero(errno)
	assert.Equal(11, n)

	// Positional writes don't move the cursor.
	_, errno = f.Pwrite([]byte("HELLO"), 0)
	require.Zero(errno)
	n, errno = f.Write([]byte("!"))
	require.Zero(errno)
	assert.Equal(1, n)

	st, errno := f.Stat()
	require.Zero(errno)
	assert.Equal(int64(12), st.Size)
	require.Zero(f.Close())

	got, err := util.ReadFile(fsys, "/out/a.ts")
	require.NoError(err)
	assert.Equal("HELLO world!", string(got))
}

func TestGuestFSRead(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fsys := memfs.New()
	require.NoError(util.WriteFile(fsys, "/schemas/a.bop", []byte("struct A {}"), 0o644))
	gfs := newGuestFS(fsys)

	f, errno := gfs.OpenFile("schemas/a.bop", experimentalsys.O_RDONLY, 0)
	require.Zero(errno)
	defer f.Close()

	buf := make([]byte, 6)
	n, errno := f.Read(buf)
	require.Zero(errno)
	assert.Equal("struct", string(buf[:n]))

	n, errno = f.Pread(buf, 7)
	require.Zero(errno)
	assert.Equal("A {}", string(buf[:n]))

	pos, errno := f.Seek(0, io.SeekCurrent)
	require.Zero(errno)
	assert.Equal(int64(6), pos)
}

func TestGuestFSOpenErrors(t *testing.T) {
	tests := map[string]struct {
		path     string
		flag     experimentalsys.Oflag
		expErrno experimentalsys.Errno
	}{
		"Opening a missing file without create should fail.": {
			path:     "missing.bop",
			flag:     experimentalsys.O_RDONLY,
			expErrno: experimentalsys.ENOENT,
		},

		"Opening a directory for writing should fail.": {
			path:     "schemas",
			flag:     experimentalsys.O_WRONLY,
			expErrno: experimentalsys.EISDIR,
		},

		"Opening a file as a directory should fail.": {
			path:     "schemas/a.bop",
			flag:     experimentalsys.O_DIRECTORY,
			expErrno: experimentalsys.ENOTDIR,
		},

		"Exclusive create of an existing directory should fail.": {
			path:     "schemas",
			flag:     experimentalsys.O_CREAT | experimentalsys.O_EXCL,
			expErrno: experimentalsys.EEXIST,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			fsys := memfs.New()
			require.NoError(t, util.WriteFile(fsys, "/schemas/a.bop", []byte("struct A {}"), 0o644))
			gfs := newGuestFS(fsys)

			_, errno := gfs.OpenFile(test.path, test.flag, 0)
			assert.Equal(t, test.expErrno, errno)
		})
	}
}

func TestGuestFSReaddir(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fsys := memfs.New()
	require.NoError(util.WriteFile(fsys, "/b.bop", nil, 0o644))
	require.NoError(util.WriteFile(fsys, "/a.bop", nil, 0o644))
	require.NoError(fsys.MkdirAll("/out", 0o755))
	gfs := newGuestFS(fsys)

	d, errno := gfs.OpenFile(".", experimentalsys.O_RDONLY, 0)
	require.Zero(errno)
	defer d.Close()

	isDir, errno := d.IsDir()
	require.Zero(errno)
	assert.True(isDir)

	names := func(ents []experimentalsys.Dirent) []string {
		var n []string
		for _, e := range ents {
			n = append(n, e.Name)
		}
		return n
	}

	first, errno := d.Readdir(2)
	require.Zero(errno)
	assert.Equal([]string{"a.bop", "b.bop"}, names(first))

	rest, errno := d.Readdir(-1)
	require.Zero(errno)
	assert.Equal([]string{"out"}, names(rest))
	assert.True(rest[0].IsDir())

	empty, errno := d.Readdir(-1)
	require.Zero(errno)
	assert.Empty(empty)

	_, errno = d.Seek(0, io.SeekStart)
	require.Zero(errno)
	all, errno := d.Readdir(-1)
	require.Zero(errno)
	assert.Equal([]string{"a.bop", "b.bop", "out"}, names(all))
}

func TestGuestFSDirOperations(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	fsys := memfs.New()
	require.NoError(util.WriteFile(fsys, "/out/a.ts", []byte("a"), 0o644))
	gfs := newGuestFS(fsys)

	assert.Equal(experimentalsys.EEXIST, gfs.Mkdir("out", 0o755))
	assert.Zero(gfs.Mkdir("gen", 0o755))
	assert.Equal(experimentalsys.ENOTEMPTY, gfs.Rmdir("out"))
	assert.Equal(experimentalsys.ENOTDIR, gfs.Rmdir("out/a.ts"))
	assert.Equal(experimentalsys.EISDIR, gfs.Unlink("out"))

	assert.Zero(gfs.Rename("out/a.ts", "gen/a.ts"))
	_, errno := gfs.Stat("out/a.ts")
	assert.Equal(experimentalsys.ENOENT, errno)
	st, errno := gfs.Stat("gen/a.ts")
	require.Zero(errno)
	assert.Equal(int64(1), st.Size)

	assert.Zero(gfs.Unlink("gen/a.ts"))
	assert.Zero(gfs.Rmdir("out"))
}
