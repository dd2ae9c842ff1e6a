package content

import "testing"

func FuzzLines(f *testing.F) {
	seeds := []string{
		"",
		"<p>Hello world</p>",
		"<article><h1>Title</h1><p>Paragraph</p></article>",
		"<div><img src='https://example.com/image.jpg' alt='Image'></div>",
		"<blockquote><p>Quote</p></blockquote>",
		"<<<<<<<<",
		"\x00\x01\x02<script>alert(1)</script>",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		if len(raw) > 10_000 {
			raw = raw[:10_000]
		}
		for _, width := range []int{1, 20, 72} {
			_ = Lines(raw, width)
			_ = LinesWithOptions(raw, width, Options{})
		}
		_ = StripHTML(raw)
	})
}

func BenchmarkLines(b *testing.B) {
	raw := `<article>
		<h1>Main Title</h1>
		<p>Intro with a <a href="https://example.com/link">reference</a>.</p>
		<ul><li>First point</li><li>Second point</li></ul>
		<blockquote><p>Quoted claim</p></blockquote>
		<p>Closing paragraph with <em>emphasis</em> and <strong>weight</strong>.</p>
	</article>`

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Lines(raw, 72)
	}
}
