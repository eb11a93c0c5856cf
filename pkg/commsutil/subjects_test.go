package commsutil

import "testing"

func TestBuildGeneratedSubject(t *testing.T) {
	tests := []struct {
		name string
		kind string
		want string
	}{
		{"image", "image", "media.bridge.generated.image"},
		{"video", "video", "media.bridge.generated.video"},
		{"audio", "audio", "media.bridge.generated.audio"},
		{"3d", "3d", "media.bridge.generated.3d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildGeneratedSubject(tt.kind)
			if got != tt.want {
				t.Errorf("BuildGeneratedSubject(%q) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}
