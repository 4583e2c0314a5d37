package model

import "testing"

func TestVideoMetadataScan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    VideoMetadata
		wantErr bool
	}{
		{"nil", nil, VideoMetadata{}, false},
		{"bytes", []byte(`{"width":640,"height":480,"poster_key":"p/poster.webp"}`), VideoMetadata{Width: 640, Height: 480, PosterKey: "p/poster.webp"}, false},
		{"string", `{"video_key":"p/video.mp4"}`, VideoMetadata{VideoKey: "p/video.mp4"}, false},
		{"bad json", []byte(`{`), VideoMetadata{}, true},
		{"wrong type", 12, VideoMetadata{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got VideoMetadata
			err := got.Scan(tc.src)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("got %+v; want %+v", got, tc.want)
			}
		})
	}
}
