package objectstore

import (
	"context"
	"strings"
	"testing"
)

func TestMemoryStorePutExistsDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("https://cdn.example.com/")

	if err := s.Put(ctx, "/recap-images/1.jpg", strings.NewReader("jpeg"), ""); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ok, err := s.Exists(ctx, "recap-images/1.jpg")
	if err != nil || !ok {
		t.Fatalf("Exists: want=true got=%v err=%v", ok, err)
	}
	obj, _ := s.Get("recap-images/1.jpg")
	if obj.ContentType != "image/jpeg" || string(obj.Data) != "jpeg" {
		t.Fatalf("Get: got=%+v", obj)
	}
	if got := s.PublicURL("recap-images/1.jpg"); got != "https://cdn.example.com/recap-images/1.jpg" {
		t.Fatalf("PublicURL: got=%q", got)
	}
	if err := s.Delete(ctx, "recap-images/1.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Exists(ctx, "recap-images/1.jpg"); ok {
		t.Fatalf("Exists after delete: want=false")
	}
}

func TestJoinURL(t *testing.T) {
	cases := map[[2]string]string{
		{"https://a.b/", "/k.jpg"}: "https://a.b/k.jpg",
		{"https://a.b", "k.jpg"}:   "https://a.b/k.jpg",
		{"", "k.jpg"}:              "k.jpg",
	}
	for in, want := range cases {
		if got := JoinURL(in[0], in[1]); got != want {
			t.Fatalf("JoinURL(%q,%q): want=%q got=%q", in[0], in[1], want, got)
		}
	}
}
