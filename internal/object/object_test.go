package object

import (
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func TestHashString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash Hash
		want string
	}{
		{
			name: "zero",
			hash: ZeroHash,
			want: strings.Repeat("0", 40),
		},
		{
			name: "most significant byte first",
			hash: Hash{0: 0xab, 19: 0x01},
			want: "ab" + strings.Repeat("0", 36) + "01",
		},
		{
			name: "lowercase",
			hash: Hash{0xde, 0xad, 0xbe, 0xef},
			want: "deadbeef" + strings.Repeat("0", 32),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.hash.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHashXor(t *testing.T) {
	t.Parallel()

	a := Hash{1, 2, 3, 0xff}
	b := Hash{0xf0, 2, 0, 0x0f}

	if got, want := a.Xor(b), (Hash{0xf1, 0, 3, 0xf0}); got != want {
		t.Errorf("Xor() = %v, want %v", got, want)
	}
	if a.Xor(b) != b.Xor(a) {
		t.Error("Xor() is not commutative")
	}
	if !a.Xor(a).IsZero() {
		t.Error("h.Xor(h) should be zero")
	}
	if a.Xor(ZeroHash) != a {
		t.Error("ZeroHash should be the identity")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode uint32
		want Kind
	}{
		{"regular file", unix.S_IFREG | 0o644, KindFile},
		{"executable", unix.S_IFREG | 0o755, KindFile},
		{"symlink", unix.S_IFLNK | 0o777, KindSymlink},
		{"directory", unix.S_IFDIR | 0o755, KindDirectory},
		{"socket", unix.S_IFSOCK | 0o755, KindSocket},
		{"fifo", unix.S_IFIFO | 0o644, KindUnsupported},
		{"block device", unix.S_IFBLK | 0o660, KindUnsupported},
		{"char device", unix.S_IFCHR | 0o666, KindUnsupported},
		{"no type bits", 0o644, KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := KindOf(tt.mode); got != tt.want {
				t.Errorf("KindOf(%o) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestKindTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   Kind
		want   byte
		wantOk bool
	}{
		{KindFile, 'f', true},
		{KindSymlink, 'l', true},
		{KindDirectory, 'd', true},
		{KindSocket, 's', true},
		{KindUnsupported, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()

			got, ok := tt.kind.Tag()
			if got != tt.want || ok != tt.wantOk {
				t.Errorf("Tag() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestNewEntry(t *testing.T) {
	t.Parallel()

	e := NewEntry("./a", unix.S_IFREG|0o644, 12)
	if e.Kind != KindFile {
		t.Errorf("Kind = %v, want %v", e.Kind, KindFile)
	}
	if e.Mode != unix.S_IFREG|0o644 {
		t.Errorf("Mode = %o, want %o", e.Mode, unix.S_IFREG|0o644)
	}
	if e.Path != "./a" || e.Size != 12 {
		t.Errorf("NewEntry() = %+v", e)
	}
}
