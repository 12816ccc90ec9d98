package websocket

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

const (
	opCodeText  = 1
	opCodeClose = 8
)

// frame is a single RFC 6455 frame, reduced to the fields this server
// needs. Client messages are assumed to fit in one final text frame.
type frame struct {
	fin     bool
	opCode  byte
	payload []byte
}

func (that *Server) sendMessage(bufrw *bufio.ReadWriter, action string, payload Payload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	return writeFrame(bufrw, frame{fin: true, opCode: opCodeText, payload: responseBytes})
}

func writeFrame(bufrw *bufio.ReadWriter, frameData frame) error {
	header := make([]byte, 2, 10)
	header[0] = frameData.opCode
	if frameData.fin {
		header[0] |= 0x80
	}

	length := uint64(len(frameData.payload))
	switch {
	case length < 126:
		header[1] = byte(length)
	case length < 1<<16:
		header[1] = 126
		size := make([]byte, 2)
		binary.BigEndian.PutUint16(size, uint16(length))
		header = append(header, size...)
	default:
		header[1] = 127
		size := make([]byte, 8)
		binary.BigEndian.PutUint64(size, length)
		header = append(header, size...)
	}

	if _, err := bufrw.Write(header); err != nil {
		return fmt.Errorf("failed to write frame header: %w", err)
	}

	if _, err := bufrw.Write(frameData.payload); err != nil {
		return fmt.Errorf("failed to write frame payload: %w", err)
	}

	if err := bufrw.Flush(); err != nil {
		return fmt.Errorf("failed to flush buffer: %w", err)
	}

	return nil
}

// readRequest reads one client frame and returns its unmasked payload.
// A close frame surfaces as io.EOF so the message loop terminates.
func (that *Server) readRequest(bufrw *bufio.ReadWriter) ([]byte, error) {
	frameData, err := readFrame(bufrw)
	if err != nil {
		return nil, err
	}

	if frameData.opCode == opCodeClose {
		return nil, io.EOF
	}

	return frameData.payload, nil
}

func readFrame(bufrw *bufio.ReadWriter) (frame, error) {
	header := make([]byte, 2)
	if _, err := io.ReadFull(bufrw, header); err != nil {
		return frame{}, fmt.Errorf("failed to read frame header: %w", err)
	}

	frameData := frame{
		fin:    header[0]>>7 == 1,
		opCode: header[0] & 0x0f,
	}

	masked := header[1]>>7 == 1

	size, err := readPayloadLength(bufrw, header[1]&0x7f)
	if err != nil {
		return frame{}, err
	}

	var mask []byte
	if masked {
		mask = make([]byte, 4)
		if _, err = io.ReadFull(bufrw, mask); err != nil {
			return frame{}, fmt.Errorf("failed to read mask: %w", err)
		}
	}

	frameData.payload = make([]byte, size)
	if _, err = io.ReadFull(bufrw, frameData.payload); err != nil {
		return frame{}, fmt.Errorf("failed to read frame payload: %w", err)
	}

	if masked {
		for i := range frameData.payload {
			frameData.payload[i] ^= mask[i%4]
		}
	}

	return frameData, nil
}

func readPayloadLength(bufrw *bufio.ReadWriter, payloadLen byte) (uint64, error) {
	switch payloadLen {
	case 126:
		length := make([]byte, 2)
		if _, err := io.ReadFull(bufrw, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return uint64(binary.BigEndian.Uint16(length)), nil
	case 127:
		length := make([]byte, 8)
		if _, err := io.ReadFull(bufrw, length); err != nil {
			return 0, fmt.Errorf("failed to read payload length: %w", err)
		}
		return binary.BigEndian.Uint64(length), nil
	default:
		return uint64(payloadLen), nil
	}
}
