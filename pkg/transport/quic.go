package transport

import (
    "context"
    "crypto/rand"
    "crypto/rsa"
    "crypto/tls"
    "crypto/x509"
    "errors"
    "math/big"
    "net"
    "time"

    quicgo "github.com/quic-go/quic-go"
)

const alpnProto = "vrpc"

// QUIC is a stream transport over QUIC with an ephemeral self-signed
// server certificate. The dialer skips verification; this transport
// moves frames for the demo pair, it does not authenticate peers.
type QUIC struct {
    tlsConf  *tls.Config
    quicConf *quicgo.Config
}

func NewQUIC() *QUIC {
    cert, _ := selfSignedCert()
    return &QUIC{
        tlsConf: &tls.Config{
            Certificates: []tls.Certificate{cert},
            NextProtos:   []string{alpnProto},
            MinVersion:   tls.VersionTLS13,
        },
        quicConf: &quicgo.Config{},
    }
}

func (t *QUIC) Kind() Kind { return KindQUIC }

func (t *QUIC) Listen(ctx context.Context, address string) (Listener, error) {
    l, err := quicgo.ListenAddr(address, t.tlsConf, t.quicConf)
    if err != nil {
        return nil, err
    }
    ql := &quicListener{l: l, newCh: make(chan Stream, 8), closeCh: make(chan struct{})}
    go ql.acceptLoop(ctx)
    go func() { <-ctx.Done(); _ = ql.Close() }()
    return ql, nil
}

func (t *QUIC) Dial(ctx context.Context, address string) (Stream, error) {
    tlsClient := &tls.Config{
        InsecureSkipVerify: true,
        NextProtos:         []string{alpnProto},
        MinVersion:         tls.VersionTLS13,
    }
    conn, err := quicgo.DialAddr(ctx, address, tlsClient, t.quicConf)
    if err != nil {
        return nil, err
    }
    st, err := conn.OpenStreamSync(ctx)
    if err != nil {
        _ = conn.CloseWithError(0, "open stream failed")
        return nil, err
    }
    return newFrameConn(st, func() error {
        _ = st.Close()
        return conn.CloseWithError(0, "")
    }), nil
}

type quicListener struct {
    l       *quicgo.Listener
    newCh   chan Stream
    closeCh chan struct{}
}

func (l *quicListener) Addr() net.Addr { return l.l.Addr() }

func (l *quicListener) Accept(ctx context.Context) (Stream, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-l.closeCh:
        return nil, errors.New("quic listener closed")
    case s := <-l.newCh:
        return s, nil
    }
}

func (l *quicListener) Close() error {
    select {
    case <-l.closeCh:
    default:
        close(l.closeCh)
    }
    return l.l.Close()
}

func (l *quicListener) acceptLoop(ctx context.Context) {
    for {
        conn, err := l.l.Accept(ctx)
        if err != nil {
            return
        }
        go func() {
            // The dialer opens the single envelope stream.
            st, err := conn.AcceptStream(ctx)
            if err != nil {
                _ = conn.CloseWithError(0, "accept stream failed")
                return
            }
            s := newFrameConn(st, func() error {
                _ = st.Close()
                return conn.CloseWithError(0, "")
            })
            select {
            case l.newCh <- s:
            case <-l.closeCh:
                _ = s.Close()
            }
        }()
    }
}

// selfSignedCert generates a short-lived self-signed certificate for
// local QUIC use.
func selfSignedCert() (tls.Certificate, error) {
    priv, err := rsa.GenerateKey(rand.Reader, 2048)
    if err != nil {
        return tls.Certificate{}, err
    }
    tmpl := x509.Certificate{
        SerialNumber:          big.NewInt(time.Now().UnixNano()),
        NotBefore:             time.Now().Add(-time.Minute),
        NotAfter:              time.Now().Add(24 * time.Hour),
        KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
        ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
        BasicConstraintsValid: true,
        DNSNames:              []string{"localhost"},
    }
    der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
    if err != nil {
        return tls.Certificate{}, err
    }
    return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: priv}, nil
}
