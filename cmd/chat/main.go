// Command chat is the external harness sketched in this module's wire and
// CLI interfaces: it runs the key-agreement handshake over a TCP socket and
// then relays encrypted chat lines between stdin/stdout and the peer.
//
// It is deliberately thin: all of the algebraic and cryptographic work
// lives in the library packages; this file only wires sockets, prompts, and
// structured logging around them.
package main

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"net"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/5p4k/goec/curve"
	"github.com/5p4k/goec/keyagreement"
	"github.com/5p4k/goec/streamcipher"
)

// primeLo and primeHi bound the magnitude of the field modulus the
// initiator samples. A chat demo has no reason to pay for cryptographic
// strength, so these are sized only to exercise the algebra, not to resist
// any real adversary — see this module's Non-goals around production use.
var (
	primeLo = big.NewInt(1 << 20)
	primeHi = big.NewInt(1 << 24)
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	app := &cli.App{
		Name:  "chat",
		Usage: "elliptic-curve Diffie-Hellman chat demo",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "listen", Usage: "wait for an incoming connection instead of dialing out"},
			&cli.StringFlag{Name: "address", Value: "localhost:4462", Usage: "address to dial or listen on"},
		},
		Action: func(c *cli.Context) error {
			return run(c, sugar)
		},
	}

	if err := app.Run(os.Args); err != nil {
		sugar.Errorw("chat session ended in error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context, log *zap.SugaredLogger) error {
	address := c.String("address")
	if !c.IsSet("address") {
		address = prompt("ip address (empty=>localhost)?", "localhost:4462")
	}

	listen := c.Bool("listen")
	if !c.IsSet("listen") {
		answer := prompt("connect or listen?", "connect")
		listen = answer == "listen"
	}

	var conn net.Conn
	var err error
	var isInitiator bool

	if listen {
		log.Infow("listening", "address", address)
		ln, listenErr := net.Listen("tcp", address)
		if listenErr != nil {
			return errors.Wrap(listenErr, "chat: listening")
		}
		defer ln.Close()
		conn, err = ln.Accept()
		isInitiator = false
	} else {
		log.Infow("connecting", "address", address)
		conn, err = net.Dial("tcp", address)
		isInitiator = true
	}
	if err != nil {
		return errors.Wrap(err, "chat: establishing connection")
	}
	defer conn.Close()

	session, err := handshake(conn, isInitiator, log)
	if err != nil {
		return errors.Wrap(err, "chat: key agreement")
	}

	log.Infow("session confirmed, starting chat")
	return chatLoop(conn, session, log)
}

// sessionKeyer is satisfied by both keyagreement.Initiator and
// keyagreement.Responder, letting handshake and chatLoop stay agnostic to
// which side of the exchange this process played.
type sessionKeyer interface {
	ConfirmationTag() ([]byte, error)
	VerifyPeerTag([]byte) error
	SessionKey() ([]byte, error)
}

func handshake(conn net.Conn, isInitiator bool, log *zap.SugaredLogger) (*streamcipher.Session, error) {
	var keyer sessionKeyer

	if isInitiator {
		initiator, err := keyagreement.NewInitiator(cryptorand.Reader, primeLo, primeHi)
		if err != nil {
			return nil, errors.Wrap(err, "generating parameters")
		}
		log.Infow("generated curve parameters", "curve", initiator.Params().Curve.String())

		if err := writeFrame(conn, initiator.Params().Encode()); err != nil {
			return nil, errors.Wrap(err, "sending parameters")
		}

		peerFrame, err := readFrame(conn)
		if err != nil {
			return nil, errors.Wrap(err, "receiving peer point")
		}
		peerPoint, err := curve.Decode(initiator.Params().Curve, peerFrame)
		if err != nil {
			return nil, errors.Wrap(err, "decoding peer point")
		}
		if err := initiator.ReceivePeerPoint(peerPoint); err != nil {
			return nil, errors.Wrap(err, "deriving shared point")
		}
		keyer = initiator
	} else {
		paramsFrame, err := readFrame(conn)
		if err != nil {
			return nil, errors.Wrap(err, "receiving parameters")
		}
		params, err := decodeParams(paramsFrame)
		if err != nil {
			return nil, errors.Wrap(err, "decoding parameters")
		}
		log.Infow("received curve parameters", "curve", params.Curve.String())

		responder, err := keyagreement.NewResponder(cryptorand.Reader, params)
		if err != nil {
			return nil, errors.Wrap(err, "validating parameters")
		}
		if err := writeFrame(conn, curve.Encode(responder.Public())); err != nil {
			return nil, errors.Wrap(err, "sending public point")
		}
		keyer = responder
	}

	if err := confirm(conn, keyer, isInitiator); err != nil {
		return nil, err
	}

	key, err := keyer.SessionKey()
	if err != nil {
		return nil, errors.Wrap(err, "deriving session key")
	}
	return streamcipher.New(key)
}

// confirm exchanges confirmation tags. The initiator sends first to break
// the symmetry; both sides otherwise perform the same two steps.
func confirm(conn net.Conn, keyer sessionKeyer, isInitiator bool) error {
	ownTag, err := keyer.ConfirmationTag()
	if err != nil {
		return errors.Wrap(err, "sealing confirmation tag")
	}

	if isInitiator {
		if err := writeFrame(conn, ownTag); err != nil {
			return errors.Wrap(err, "sending confirmation tag")
		}
		peerTag, err := readFrame(conn)
		if err != nil {
			return errors.Wrap(err, "receiving confirmation tag")
		}
		if err := keyer.VerifyPeerTag(peerTag); err != nil {
			return errors.Wrap(err, "verifying confirmation tag")
		}
		return nil
	}

	peerTag, err := readFrame(conn)
	if err != nil {
		return errors.Wrap(err, "receiving confirmation tag")
	}
	if err := keyer.VerifyPeerTag(peerTag); err != nil {
		return errors.Wrap(err, "verifying confirmation tag")
	}
	if err := writeFrame(conn, ownTag); err != nil {
		return errors.Wrap(err, "sending confirmation tag")
	}
	return nil
}

func decodeParams(frame []byte) (keyagreement.Params, error) {
	c, consumed, err := curve.DecodeParams(frame, curve.StrictnessStrict)
	if err != nil {
		return keyagreement.Params{}, err
	}

	pointLen := curve.EncodedPointLen(c)
	if len(frame) < consumed+2*pointLen {
		return keyagreement.Params{}, errors.New("chat: truncated parameters frame")
	}

	g, err := curve.Decode(c, frame[consumed:consumed+pointLen])
	if err != nil {
		return keyagreement.Params{}, err
	}
	consumed += pointLen

	public, err := curve.Decode(c, frame[consumed:consumed+pointLen])
	if err != nil {
		return keyagreement.Params{}, err
	}

	return keyagreement.Params{Curve: c, Generator: g, Public: public}, nil
}

func chatLoop(conn net.Conn, session *streamcipher.Session, log *zap.SugaredLogger) error {
	incoming := make(chan []byte)
	readErrs := make(chan error, 1)
	go func() {
		for {
			frame, err := readFrame(conn)
			if err != nil {
				readErrs <- err
				return
			}
			incoming <- frame
		}
	}()

	stdin := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		for stdin.Scan() {
			lines <- stdin.Text()
		}
		close(lines)
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			sealed, err := session.Seal([]byte(line), nil)
			if err != nil {
				return errors.Wrap(err, "sealing chat message")
			}
			if err := writeFrame(conn, sealed); err != nil {
				return errors.Wrap(err, "sending chat message")
			}
		case frame := <-incoming:
			plaintext, err := session.Open(frame, nil)
			if err != nil {
				return errors.Wrap(err, "opening chat message")
			}
			fmt.Println(string(plaintext))
		case err := <-readErrs:
			if errors.Is(err, io.EOF) {
				log.Infow("peer closed connection")
				return nil
			}
			return errors.Wrap(err, "reading from peer")
		}
	}
}

func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func prompt(question, fallback string) string {
	fmt.Printf("%s ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fallback
	}
	line = trimNewline(line)
	if line == "" {
		return fallback
	}
	return line
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
