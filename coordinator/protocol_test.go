package coordinator

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []ProofData{
		ProverSetup{ProverKind: ProverTDXKind, Payload: []byte{0xbe, 0xef}},
		ProverSetupAck{},
		BatchRequest{},
		ProofSubmitAck{BatchNumber: 7},
	}
	for _, msg := range cases {
		data, err := EncodeProofData(msg)
		if err != nil {
			t.Fatalf("encode %T: %v", msg, err)
		}
		got, err := DecodeProofData(data)
		if err != nil {
			t.Fatalf("decode %T: %v", msg, err)
		}
		if got.tag() != msg.tag() {
			t.Fatalf("round trip tag mismatch: got %s, want %s", got.tag(), msg.tag())
		}
	}
}

func TestBatchResponseTotality(t *testing.T) {
	empty := BatchResponse{}
	data, err := EncodeProofData(empty)
	if err != nil {
		t.Fatalf("encode empty response: %v", err)
	}
	got, err := DecodeProofData(data)
	if err != nil {
		t.Fatalf("decode empty response: %v", err)
	}
	resp := got.(BatchResponse)
	if resp.BatchNumber != nil || resp.Input != nil {
		t.Fatalf("expected both nil, got %v %v", resp.BatchNumber, resp.Input)
	}
}

func TestBatchResponseMalformed(t *testing.T) {
	raw := []byte(`{"type":"batch_response","batch_number":5}`)
	if _, err := DecodeProofData(raw); err == nil {
		t.Fatal("expected malformed-response error for mixed batch_number/input presence")
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	if _, err := DecodeProofData([]byte(`{"type":"bogus"}`)); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeProofData([]byte(`not json at all`)); err == nil {
		t.Fatal("expected decode error for non-JSON input")
	}
}
