package transport

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/vaultwire/esrp/value"

	"github.com/golang/glog"
)

const (
	frameLengthBytes     = 2
	framePayloadMaxBytes = 1024
	frameTagBytes        = chacha20poly1305.Overhead
	frameMaxBytes        = frameLengthBytes + framePayloadMaxBytes + frameTagBytes

	nonceBytes      = chacha20poly1305.NonceSize
	nonceFixedBytes = 4
)

// Conn wraps a net.Conn with a framed ChaCha20-Poly1305 channel keyed by
// K, the session key an session handshake produces. Reads and writes
// are independently keyed and independently sequenced, so either side
// may read and write concurrently.
type Conn struct {
	net.Conn
	w frameWriter
	r frameReader
}

// New wraps conn in an encrypted channel derived from K. role must
// match which side of the original handshake this process played;
// using the wrong role produces a channel that cannot talk to its peer.
func New(conn net.Conn, K *value.Value, role Role) *Conn {
	writeKey, readKey := directionKeys(K, role)
	return &Conn{
		Conn: conn,
		w:    frameWriter{w: conn, aead: mustAEAD(writeKey)},
		r:    frameReader{r: conn, aead: mustAEAD(readKey)},
	}
}

func mustAEAD(key []byte) cipher.AEAD {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		panic(err)
	}
	return aead
}

func (c *Conn) Read(b []byte) (int, error)  { return c.r.Read(b) }
func (c *Conn) Write(b []byte) (int, error) { return c.w.Write(b) }

type frameWriter struct {
	w    io.Writer
	aead cipher.AEAD

	mu  sync.Mutex
	seq [nonceBytes]byte
}

func (fw *frameWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	written := 0
	for len(p) > 0 {
		l := len(p)
		if l > framePayloadMaxBytes {
			l = framePayloadMaxBytes
		}
		if err := fw.writeFrame(p[:l]); err != nil {
			return written, err
		}
		written += l
		p = p[l:]
	}
	return written, nil
}

func (fw *frameWriter) writeFrame(cleartext []byte) error {
	var frame [frameMaxBytes]byte
	aad := frame[:frameLengthBytes]
	binary.LittleEndian.PutUint16(aad, uint16(len(cleartext)))
	ciphertext := fw.aead.Seal(frame[frameLengthBytes:][:0], fw.seq[:], cleartext, aad)
	incrementSeq(&fw.seq)
	_, err := fw.w.Write(frame[:frameLengthBytes+len(ciphertext)])
	return err
}

type frameReader struct {
	r    io.Reader
	aead cipher.AEAD

	mu  sync.Mutex
	seq [nonceBytes]byte
	buf []byte
}

func (fr *frameReader) Read(b []byte) (int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.buf == nil {
		buf, err := fr.readFrame()
		if err != nil {
			glog.Errorf("transport: read frame: %v", err)
			return 0, err
		}
		if glog.V(2) {
			glog.Infof("transport: read frame: %d bytes", len(buf))
		}
		fr.buf = buf
	}
	n := copy(b, fr.buf)
	fr.buf = fr.buf[n:]
	if len(fr.buf) == 0 {
		fr.buf = nil
	}
	return n, nil
}

func (fr *frameReader) readFrame() ([]byte, error) {
	var frame [frameMaxBytes]byte
	aad := frame[:frameLengthBytes]
	if _, err := io.ReadFull(fr.r, aad); err != nil {
		return nil, err
	}
	l := binary.LittleEndian.Uint16(aad)
	if int(l) > framePayloadMaxBytes {
		return nil, fmt.Errorf("transport: frame payload too large: %d", l)
	}
	ciphertext := frame[frameLengthBytes:][:int(l)+frameTagBytes]
	if _, err := io.ReadFull(fr.r, ciphertext); err != nil {
		return nil, err
	}
	cleartext, err := fr.aead.Open(ciphertext[:0], fr.seq[:], ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("transport: failed to decrypt frame: %w", err)
	}
	incrementSeq(&fr.seq)
	return cleartext, nil
}

func incrementSeq(seq *[nonceBytes]byte) {
	binary.LittleEndian.PutUint64(seq[nonceFixedBytes:],
		binary.LittleEndian.Uint64(seq[nonceFixedBytes:])+1)
}
