package models

import "testing"

func TestStatusTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusStarting:    false,
		StatusDownloading: false,
		StatusProcessing:  false,
		StatusCompleted:   true,
		StatusError:       true,
	}
	for status, want := range cases {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{FormatMP4, FormatMP3} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false, want true", f)
		}
	}
	for _, f := range []string{"", "avi", "MP4", "webm"} {
		if ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = true, want false", f)
		}
	}
}

func TestViewHidesFilePath(t *testing.T) {
	job := Job{
		ID:       "a",
		Status:   StatusCompleted,
		Progress: 100,
		Format:   FormatMP4,
		FilePath: "/private/place.mp4",
	}
	view := job.View()
	if view.ID != "a" || view.Status != StatusCompleted || view.Progress != 100 || view.Format != FormatMP4 {
		t.Errorf("View() = %+v dropped fields", view)
	}
}
