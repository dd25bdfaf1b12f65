package serial

import (
	"testing"
	"time"

	"nixieclock/hal"
)

func waitOutput(t *testing.T, hw *hal.SimSerial, want string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if string(hw.Output()) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("output = %q, want %q", hw.Output(), want)
}

func TestRoundTrip(t *testing.T) {
	hw := hal.NewSimSerial()
	p := New(hw, Config{BlockingRead: true, BlockingWrite: true})

	hw.Inject([]byte("hi"))
	b, err := p.ReadByte()
	if err != nil || b != 'h' {
		t.Fatalf("ReadByte = %q, %v", b, err)
	}
	b, err = p.ReadByte()
	if err != nil || b != 'i' {
		t.Fatalf("ReadByte = %q, %v", b, err)
	}

	if err := p.WriteString("ok"); err != nil {
		t.Fatal(err)
	}
	waitOutput(t, hw, "ok")
}

func TestNonBlockingReadEmpty(t *testing.T) {
	hw := hal.NewSimSerial()
	p := New(hw, Config{})

	if _, err := p.ReadByte(); err != ErrRxEmpty {
		t.Fatalf("err = %v, want ErrRxEmpty", err)
	}
	if _, ok := p.TryReadByte(); ok {
		t.Fatal("TryReadByte returned a byte from an empty ring")
	}
}

func TestAutoCRLF(t *testing.T) {
	hw := hal.NewSimSerial()
	p := New(hw, Config{BlockingWrite: true, AutoCRLF: true})

	if err := p.WriteString("a\nb"); err != nil {
		t.Fatal(err)
	}
	waitOutput(t, hw, "a\r\nb")

	p.SetAutoCRLF(false)
	if err := p.WriteByte('\n'); err != nil {
		t.Fatal(err)
	}
	waitOutput(t, hw, "a\r\nb\n")
}

func TestBlockingReadWakes(t *testing.T) {
	hw := hal.NewSimSerial()
	p := New(hw, Config{BlockingRead: true})

	got := make(chan byte, 1)
	go func() {
		b, err := p.ReadByte()
		if err == nil {
			got <- b
		}
	}()

	select {
	case b := <-got:
		t.Fatalf("read returned %q before input", b)
	case <-time.After(10 * time.Millisecond):
	}

	hw.Inject([]byte{'z'})
	select {
	case b := <-got:
		if b != 'z' {
			t.Fatalf("read %q, want z", b)
		}
	case <-time.After(time.Second):
		t.Fatal("blocking read never woke")
	}
}

func TestReaderInterface(t *testing.T) {
	hw := hal.NewSimSerial()
	p := New(hw, Config{BlockingRead: true})

	hw.Inject([]byte("abc"))
	buf := make([]byte, 8)
	// Give the pump time to stage all three bytes.
	deadline := time.Now().Add(time.Second)
	n := 0
	for n < 3 && time.Now().Before(deadline) {
		m, err := p.Read(buf[n:])
		if err != nil {
			t.Fatal(err)
		}
		n += m
	}
	if string(buf[:n]) != "abc" {
		t.Fatalf("read %q, want abc", buf[:n])
	}
}

func TestClosedPortErrors(t *testing.T) {
	hw := hal.NewSimSerial()
	p := New(hw, Config{BlockingRead: true})
	hw.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, err := p.ReadByte(); err == ErrClosed {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("read did not observe the closed port")
}
