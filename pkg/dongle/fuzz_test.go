// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package dongle

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// TestFuzzDecoder_RandomBytes feeds random bytes to the decoder and
// verifies it neither panics nor fabricates invalid frames.
func TestFuzzDecoder_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		d := NewDecoder()

		length := rng.Intn(512) + 1
		data := make([]byte, length)
		rng.Read(data)

		for _, b := range data {
			if f := d.Feed(b); f != nil {
				var sum byte
				for _, x := range f.Bytes() {
					sum += x
				}
				if sum != 0 {
					t.Fatalf("emitted frame with non-zero sum: % X", f.Bytes())
				}
			}
		}
	}
}

// TestFuzzDecoder_EmbeddedFrames hides encoder-built frames inside random
// garbage and verifies every one is recovered byte-for-byte in order.
func TestFuzzDecoder_EmbeddedFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		e := NewEncoder()
		d := NewDecoder()

		var stream []byte
		var want [][]byte
		frames := rng.Intn(4) + 1
		for j := 0; j < frames; j++ {
			// Garbage that cannot start a frame keeps the prefix from
			// swallowing the real one.
			garbage := make([]byte, rng.Intn(16))
			for k := range garbage {
				garbage[k] = byte(rng.Intn(255))
				if garbage[k] == StartByte {
					garbage[k] = 0
				}
			}
			body := make([]byte, rng.Intn(32)+1)
			rng.Read(body)
			raw, err := e.Emit(MsgNotifyStatus, body)
			if err != nil {
				t.Fatal(err)
			}
			stream = append(stream, garbage...)
			stream = append(stream, raw...)
			want = append(want, raw)
		}

		var got [][]byte
		for _, b := range stream {
			if f := d.Feed(b); f != nil {
				got = append(got, append([]byte(nil), f.Bytes()...))
			}
		}

		if len(got) != len(want) {
			t.Fatalf("round %d: recovered %d frames, want %d", i, len(got), len(want))
		}
		for j := range want {
			if !bytes.Equal(got[j], want[j]) {
				t.Fatalf("round %d frame %d: got % X, want % X", i, j, got[j], want[j])
			}
		}
	}
}
