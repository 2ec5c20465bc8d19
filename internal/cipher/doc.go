// Package cipher exposes the cipherlab primitives as named operations that
// can be chained into pipelines, saved as recipes and suggested by a
// detector.
//
// # Quick Start
//
// Run a single operation:
//
//	op, _ := cipher.GetOperation("xor_repeating")
//	out, _ := op.Execute(ctx, []byte("Burning 'em"), map[string]any{"key": "ICE"})
//
// # Transformation Pipelines
//
// Chain operations and reverse the chain:
//
//	pipeline := &cipher.Pipeline{
//	    Operations: []cipher.OperationConfig{
//	        {Name: "pkcs7_pad"},
//	        {Name: "aes_cbc_encrypt", Parameters: map[string]any{"key": "YELLOW SUBMARINE"}},
//	        {Name: "base64_encode"},
//	    },
//	    Reversible: true,
//	}
//
//	encoded, _ := pipeline.Execute(ctx, plaintext)
//	reversed, _ := pipeline.Reverse()
//	decoded, _ := reversed.Execute(ctx, encoded)
//
// A Runner executes a pipeline against a specific Registry and records every
// step in an audit log. Key parameters are redacted before they are written.
//
// # Recipes
//
// A RecipeManager stores named pipelines as YAML files, one per recipe, each
// identified by a UUID:
//
//	rm := cipher.NewRecipeManager("~/.cipherlab/recipes")
//	_ = rm.LoadRecipes()
//	_ = rm.SaveRecipe(&cipher.Recipe{Name: "challenge-6", Pipeline: p})
//
// # Detection
//
// SmartDetector ranks hypotheses about a buffer: base64, hex, AES-ECB (from
// repeated 16-byte blocks), single-byte XOR and repeating-key XOR. XOR
// hypotheses carry the recovered key in Parameters so that DecodeAll can
// apply the suggested operation directly.
//
// # Available Operations
//
// Encoding:
//   - base64_encode/decode
//   - hex_encode/decode
//
// XOR:
//   - xor_single (key: byte value or one character)
//   - xor_repeating (key or key_hex)
//   - xor_fixed (other_hex)
//
// Analysis (not reversible):
//   - xor_break (min_key_size, max_key_size, candidates, workers)
//   - xor_solve_single
//
// Block cipher:
//   - pkcs7_pad/unpad (block_size, default 16)
//   - aes_ecb_encrypt/decrypt (key or key_hex)
//   - aes_cbc_encrypt/decrypt (key or key_hex, iv_hex defaulting to zeros)
//
// # Thread Safety
//
// Registry and RecipeManager use internal locking. Operations are stateless
// and safe for concurrent use.
package cipher
