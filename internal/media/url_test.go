package media

import "testing"

func TestFileURL(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/me/Videos/clip.mp4", "vidmin:/home/me/Videos/clip.mp4"},
		{"/home/me/My Videos/a b.mkv", "vidmin:/home/me/My%20Videos/a%20b.mkv"},
		{"/home/me/what#is?this.mp4", "vidmin:/home/me/what%23is%3Fthis.mp4"},
		{"relative.mp4", "vidmin:/relative.mp4"},
	}

	for _, tt := range tests {
		if got := FileURL("vidmin", tt.path); got != tt.want {
			t.Errorf("FileURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
