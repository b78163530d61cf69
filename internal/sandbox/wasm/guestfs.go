package wasm

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"

	billy "github.com/go-git/go-billy/v5"
	experimentalsys "github.com/tetratelabs/wazero/experimental/sys"
	"github.com/tetratelabs/wazero/sys"
)

// guestFS exposes a billy filesystem to the guest as its root filesystem.
// Symlinks are not supported.
type guestFS struct {
	experimentalsys.UnimplementedFS
	fs billy.Filesystem
}

func newGuestFS(fsys billy.Filesystem) experimentalsys.FS {
	return &guestFS{fs: fsys}
}

// Guest paths arrive relative to the mount point.
func guestPath(p string) string {
	return path.Clean("/" + p)
}

func (g *guestFS) OpenFile(p string, flag experimentalsys.Oflag, perm fs.FileMode) (experimentalsys.File, experimentalsys.Errno) {
	name := guestPath(p)

	info, err := g.fs.Stat(name)
	switch {
	case err == nil && info.IsDir():
		if flag&(experimentalsys.O_WRONLY|experimentalsys.O_RDWR) != 0 {
			return nil, experimentalsys.EISDIR
		}
		if flag&experimentalsys.O_CREAT != 0 && flag&experimentalsys.O_EXCL != 0 {
			return nil, experimentalsys.EEXIST
		}
		return &guestDir{fs: g.fs, name: name}, 0
	case err == nil && flag&experimentalsys.O_DIRECTORY != 0:
		return nil, experimentalsys.ENOTDIR
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, experimentalsys.UnwrapOSError(err)
	case err != nil && flag&experimentalsys.O_CREAT == 0:
		return nil, experimentalsys.ENOENT
	case err != nil && flag&experimentalsys.O_DIRECTORY != 0:
		return nil, experimentalsys.ENOENT
	}

	f, err := g.fs.OpenFile(name, osFlag(flag), perm)
	if err != nil {
		return nil, experimentalsys.UnwrapOSError(err)
	}

	return &guestFile{
		f:      f,
		fs:     g.fs,
		name:   name,
		append: flag&experimentalsys.O_APPEND != 0,
	}, 0
}

func (g *guestFS) Stat(p string) (sys.Stat_t, experimentalsys.Errno) {
	return stat(g.fs, guestPath(p))
}

func (g *guestFS) Lstat(p string) (sys.Stat_t, experimentalsys.Errno) {
	info, err := g.fs.Lstat(guestPath(p))
	if err != nil {
		return sys.Stat_t{}, experimentalsys.UnwrapOSError(err)
	}
	return sys.NewStat_t(info), 0
}

func (g *guestFS) Mkdir(p string, perm fs.FileMode) experimentalsys.Errno {
	name := guestPath(p)
	if _, err := g.fs.Stat(name); err == nil {
		return experimentalsys.EEXIST
	}
	return experimentalsys.UnwrapOSError(g.fs.MkdirAll(name, perm))
}

func (g *guestFS) Chmod(p string, perm fs.FileMode) experimentalsys.Errno {
	ch, ok := g.fs.(billy.Change)
	if !ok {
		return experimentalsys.ENOSYS
	}
	return experimentalsys.UnwrapOSError(ch.Chmod(guestPath(p), perm))
}

func (g *guestFS) Rename(from, to string) experimentalsys.Errno {
	return experimentalsys.UnwrapOSError(g.fs.Rename(guestPath(from), guestPath(to)))
}

func (g *guestFS) Rmdir(p string) experimentalsys.Errno {
	name := guestPath(p)
	info, err := g.fs.Stat(name)
	if err != nil {
		return experimentalsys.UnwrapOSError(err)
	}
	if !info.IsDir() {
		return experimentalsys.ENOTDIR
	}

	entries, err := g.fs.ReadDir(name)
	if err != nil {
		return experimentalsys.UnwrapOSError(err)
	}
	if len(entries) > 0 {
		return experimentalsys.ENOTEMPTY
	}

	return experimentalsys.UnwrapOSError(g.fs.Remove(name))
}

func (g *guestFS) Unlink(p string) experimentalsys.Errno {
	name := guestPath(p)
	info, err := g.fs.Lstat(name)
	if err != nil {
		return experimentalsys.UnwrapOSError(err)
	}
	if info.IsDir() {
		return experimentalsys.EISDIR
	}
	return experimentalsys.UnwrapOSError(g.fs.Remove(name))
}

// Utimens is accepted and ignored, the in-memory filesystem has no timestamps to update.
func (g *guestFS) Utimens(string, int64, int64) experimentalsys.Errno {
	return 0
}

func stat(fsys billy.Filesystem, name string) (sys.Stat_t, experimentalsys.Errno) {
	info, err := fsys.Stat(name)
	if err != nil {
		return sys.Stat_t{}, experimentalsys.UnwrapOSError(err)
	}
	return sys.NewStat_t(info), 0
}

func osFlag(oflag experimentalsys.Oflag) int {
	var flag int
	switch {
	case oflag&experimentalsys.O_RDWR != 0:
		flag = os.O_RDWR
	case oflag&experimentalsys.O_WRONLY != 0:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}

	if oflag&experimentalsys.O_APPEND != 0 {
		flag |= os.O_APPEND
	}
	if oflag&experimentalsys.O_CREAT != 0 {
		flag |= os.O_CREATE
	}
	if oflag&experimentalsys.O_EXCL != 0 {
		flag |= os.O_EXCL
	}
	if oflag&experimentalsys.O_TRUNC != 0 {
		flag |= os.O_TRUNC
	}

	return flag
}

// guestFile is a regular file opened by the guest.
type guestFile struct {
	experimentalsys.UnimplementedFile
	f      billy.File
	fs     billy.Filesystem
	name   string
	append bool
}

func (f *guestFile) IsAppend() bool { return f.append }

func (f *guestFile) Stat() (sys.Stat_t, experimentalsys.Errno) {
	return stat(f.fs, f.name)
}

func (f *guestFile) Read(buf []byte) (int, experimentalsys.Errno) {
	n, err := f.f.Read(buf)
	return n, experimentalsys.UnwrapOSError(err)
}

func (f *guestFile) Pread(buf []byte, off int64) (int, experimentalsys.Errno) {
	n, err := f.f.ReadAt(buf, off)
	return n, experimentalsys.UnwrapOSError(err)
}

func (f *guestFile) Seek(offset int64, whence int) (int64, experimentalsys.Errno) {
	pos, err := f.f.Seek(offset, whence)
	return pos, experimentalsys.UnwrapOSError(err)
}

func (f *guestFile) Write(buf []byte) (int, experimentalsys.Errno) {
	n, err := f.f.Write(buf)
	return n, experimentalsys.UnwrapOSError(err)
}

// Pwrite writes at the offset without moving the file position.
func (f *guestFile) Pwrite(buf []byte, off int64) (int, experimentalsys.Errno) {
	pos, err := f.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, experimentalsys.UnwrapOSError(err)
	}
	if _, err := f.f.Seek(off, io.SeekStart); err != nil {
		return 0, experimentalsys.UnwrapOSError(err)
	}

	n, err := f.f.Write(buf)
	if _, serr := f.f.Seek(pos, io.SeekStart); err == nil {
		err = serr
	}

	return n, experimentalsys.UnwrapOSError(err)
}

func (f *guestFile) Truncate(size int64) experimentalsys.Errno {
	return experimentalsys.UnwrapOSError(f.f.Truncate(size))
}

func (f *guestFile) Utimens(int64, int64) experimentalsys.Errno { return 0 }

func (f *guestFile) Close() experimentalsys.Errno {
	return experimentalsys.UnwrapOSError(f.f.Close())
}

// guestDir is a directory opened by the guest, entries are listed lazily
// and the listing is reset when the guest rewinds it.
type guestDir struct {
	experimentalsys.DirFile
	fs      billy.Filesystem
	name    string
	entries []experimentalsys.Dirent
	pos     int
}

func (d *guestDir) Dev() (uint64, experimentalsys.Errno) { return 0, 0 }

func (d *guestDir) Ino() (sys.Inode, experimentalsys.Errno) { return 0, 0 }

func (d *guestDir) Stat() (sys.Stat_t, experimentalsys.Errno) {
	return stat(d.fs, d.name)
}

func (d *guestDir) Seek(offset int64, whence int) (int64, experimentalsys.Errno) {
	if offset != 0 || whence != io.SeekStart {
		return 0, experimentalsys.EINVAL
	}
	d.entries = nil
	d.pos = 0
	return 0, 0
}

func (d *guestDir) Readdir(n int) ([]experimentalsys.Dirent, experimentalsys.Errno) {
	if d.entries == nil {
		infos, err := d.fs.ReadDir(d.name)
		if err != nil {
			return nil, experimentalsys.UnwrapOSError(err)
		}

		d.entries = make([]experimentalsys.Dirent, 0, len(infos))
		for _, info := range infos {
			d.entries = append(d.entries, experimentalsys.Dirent{
				Name: info.Name(),
				Type: info.Mode().Type(),
			})
		}
	}

	rest := d.entries[d.pos:]
	if n > 0 && n < len(rest) {
		rest = rest[:n]
	}
	d.pos += len(rest)

	return rest, 0
}

func (d *guestDir) Sync() experimentalsys.Errno { return 0 }

func (d *guestDir) Datasync() experimentalsys.Errno { return 0 }

func (d *guestDir) Utimens(int64, int64) experimentalsys.Errno { return 0 }

func (d *guestDir) Close() experimentalsys.Errno { return 0 }
