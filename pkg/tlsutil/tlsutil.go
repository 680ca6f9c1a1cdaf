// Package tlsutil serves the lendingd certificate to both API listeners and
// picks up a rotated key pair without a restart.
package tlsutil

import (
	"crypto/tls"
	"fmt"
	"os"
	"sync"
	"time"
)

// KeyPair is a certificate and key loaded from disk. The files are checked
// again on each handshake and reloaded once the certificate changes.
type KeyPair struct {
	certFile string
	keyFile  string

	mu      sync.RWMutex
	cert    *tls.Certificate
	modTime time.Time
}

// LoadKeyPair reads certFile and keyFile. Both must be valid at startup.
func LoadKeyPair(certFile, keyFile string) (*KeyPair, error) {
	kp := &KeyPair{certFile: certFile, keyFile: keyFile}
	if err := kp.reload(); err != nil {
		return nil, err
	}
	return kp, nil
}

func (kp *KeyPair) reload() error {
	info, err := os.Stat(kp.certFile)
	if err != nil {
		return fmt.Errorf("tlsutil: stat %s: %w", kp.certFile, err)
	}
	cert, err := tls.LoadX509KeyPair(kp.certFile, kp.keyFile)
	if err != nil {
		return fmt.Errorf("tlsutil: load key pair %s: %w", kp.certFile, err)
	}
	kp.mu.Lock()
	kp.cert = &cert
	kp.modTime = info.ModTime()
	kp.mu.Unlock()
	return nil
}

// GetCertificate implements tls.Config.GetCertificate. A rotation that
// fails to load keeps the previous certificate in service.
func (kp *KeyPair) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	kp.mu.RLock()
	cert, loaded := kp.cert, kp.modTime
	kp.mu.RUnlock()

	if info, err := os.Stat(kp.certFile); err == nil && info.ModTime().After(loaded) {
		if err := kp.reload(); err == nil {
			kp.mu.RLock()
			cert = kp.cert
			kp.mu.RUnlock()
		}
	}
	return cert, nil
}

// ServerConfig returns a TLS 1.2+ server config advertising protos via ALPN.
func (kp *KeyPair) ServerConfig(protos ...string) *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: kp.GetCertificate,
		NextProtos:     protos,
	}
}
