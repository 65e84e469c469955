package protocol

import (
	"bytes"
	goerrors "errors"
	"io"
	"lanchat/errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, r io.Reader) []string {
	t.Helper()
	var frames []string
	err := ReadFrames(r, &LineDecoder{}, make([]byte, 4), func(frame []byte) {
		frames = append(frames, string(frame))
	})
	require.NoError(t, err)
	return frames
}

func TestLineDecoder_Yields_One_Frame_Per_Terminator(t *testing.T) {
	req := require.New(t)
	cases := []struct {
		name     string
		stream   string
		expected []string
	}{
		{"empty stream", "", nil},
		{"single line", "hello\r\n", []string{"hello"}},
		{"empty frame", "\r\n", []string{""}},
		{"several lines", "a\r\nbc\r\n\r\ndef\r\n", []string{"a", "bc", "", "def"}},
		{"lone LF is data", "a\nb\r\n", []string{"a\nb"}},
		{"lone CR is data", "a\rb\r\n", []string{"a\rb"}},
		{"residual bytes dropped", "a\r\nrest", []string{"a"}},
		{"CR at end without LF", "a\r\nb\r", []string{"a"}},
	}

	for _, c := range cases {
		frames := collect(t, strings.NewReader(c.stream))
		req.Equal(c.expected, frames, c.name)
		req.Equal(strings.Count(c.stream, "\r\n"), len(frames), c.name)
		for _, f := range frames {
			req.NotContains(f, "\r\n", c.name)
		}
	}
}

func TestLineDecoder_Frame_Split_Across_Reads(t *testing.T) {
	req := require.New(t)
	d := &LineDecoder{}

	// Given the first part of a frame
	d.Feed([]byte("AB"))
	_, ok := d.Next()
	req.False(ok)
	req.Equal(2, d.Pending())

	// When the rest arrives
	d.Feed([]byte("C\r\n"))

	// Then exactly one frame is yielded
	frame, ok := d.Next()
	req.True(ok)
	req.Equal("ABC", string(frame))
	_, ok = d.Next()
	req.False(ok)
	req.Zero(d.Pending())
}

func TestLineDecoder_Terminator_Split_Across_Reads(t *testing.T) {
	req := require.New(t)
	d := &LineDecoder{}

	d.Feed([]byte("hi\r"))
	_, ok := d.Next()
	req.False(ok)

	d.Feed([]byte("\nnext"))
	frame, ok := d.Next()
	req.True(ok)
	req.Equal("hi", string(frame))
	req.Equal(4, d.Pending())
}

func TestReadFrames_One_Byte_Reads(t *testing.T) {
	req := require.New(t)
	r := iotest.OneByteReader(strings.NewReader("Alice\r\nhi there\r\n"))

	frames := collect(t, r)

	req.Equal([]string{"Alice", "hi there"}, frames)
}

func TestReadFrames_Returns_Read_Error(t *testing.T) {
	req := require.New(t)
	boom := goerrors.New("connection reset")
	r := io.MultiReader(strings.NewReader("ok\r\n"), iotest.ErrReader(boom))

	var frames []string
	err := ReadFrames(r, &LineDecoder{}, make([]byte, 16), func(frame []byte) {
		frames = append(frames, string(frame))
	})

	req.ErrorIs(err, boom)
	req.Equal([]string{"ok"}, frames)
}

func TestEncode(t *testing.T) {
	require.Equal(t, []byte("Alice: hi\r\n"), Encode("Alice: hi"))
	require.Equal(t, []byte("\r\n"), Encode(""))
}

type shortWriter struct {
	limit int
	out   bytes.Buffer
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		p = p[:w.limit]
	}
	return w.out.Write(p)
}

func TestLineEncoder_Flush_Resumes_Partial_Writes(t *testing.T) {
	req := require.New(t)
	e := &LineEncoder{}
	w := &shortWriter{limit: 3}

	e.Buffer(Encode("one"))
	e.Buffer(Encode("two"))
	req.Equal(10, e.Buffered())

	req.NoError(e.Flush(w))

	req.Zero(e.Buffered())
	req.Equal("one\r\ntwo\r\n", w.out.String())
}

type zeroWriter struct{}

func (zeroWriter) Write([]byte) (int, error) { return 0, nil }

func TestLineEncoder_Zero_Byte_Write_Is_Fatal(t *testing.T) {
	req := require.New(t)
	e := &LineEncoder{}
	e.Buffer(Encode("lost"))

	err := e.Flush(zeroWriter{})

	req.ErrorIs(err, errors.ErrZeroWrite)
	req.Equal(6, e.Buffered())
}

type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 1, w.err }

func TestLineEncoder_Write_Error_Keeps_Unsent_Bytes(t *testing.T) {
	req := require.New(t)
	boom := goerrors.New("broken pipe")
	e := &LineEncoder{}
	e.Buffer([]byte("abc"))

	err := e.Flush(failingWriter{err: boom})

	req.ErrorIs(err, boom)
	req.Equal(2, e.Buffered())
}

func TestLineEncoder_Flush_Empty_Buffer(t *testing.T) {
	require.NoError(t, (&LineEncoder{}).Flush(zeroWriter{}))
}
