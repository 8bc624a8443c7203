package transport

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"

	"github.com/quic-go/quic-go"
)

// ALPN identifier of the simulation protocol.
const ALPNProtocol = "threadsched-v1"

// TLS configuration for the server, backed by a freshly generated
// self-signed certificate.
func ServerTLSConfig() (*tls.Config, error) {
	cert, err := generateSelfSignedCert()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPNProtocol},
	}, nil
}

// TLS configuration for clients. The server certificate is self-signed, so
// it is not verified.
func ClientTLSConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{ALPNProtocol},
	}
}

func ServerQUICConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:       5 * time.Minute,
		HandshakeIdleTimeout: 10 * time.Second,
		KeepAlivePeriod:      10 * time.Second,
		MaxIncomingStreams:   20000,
	}
}

func ClientQUICConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:       5 * time.Minute,
		HandshakeIdleTimeout: 10 * time.Second,
		KeepAlivePeriod:      10 * time.Second,
	}
}

func generateSelfSignedCert() (tls.Certificate, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"threadsched"}},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.Certificate{
		Certificate: [][]byte{certDER},
		PrivateKey:  priv,
	}, nil
}
