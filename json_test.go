package problemdetails

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testExtensions struct {
	Foo string `json:"foo"`
	Bar uint32 `json:"bar"`
}

func TestJSONBody_encode(t *testing.T) {
	t.Run("Empty value should encode to an empty object", func(t *testing.T) {
		body, err := New().JSONBody()

		require.NoError(t, err)
		require.Equal(t, "{}", string(body))
	})

	t.Run("Every set member should appear under its literal name", func(t *testing.T) {
		details := WithExtensions(
			New().
				WithType(MustProblemType("test:type")).
				WithStatus(http.StatusInternalServerError).
				WithTitle("Test Title").
				WithDetail("Test Detail").
				WithInstance(MustProblemType("test:instance").URI()),
			testExtensions{Foo: "Foo", Bar: 42})

		body, err := details.JSONBody()

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "test:type",
			"status": 500,
			"title": "Test Title",
			"detail": "Test Detail",
			"instance": "test:instance",
			"foo": "Foo",
			"bar": 42
		}`, string(body))
	})

	t.Run("Extension members should be flattened next to the reserved members", func(t *testing.T) {
		details := WithExtensions(
			New().
				WithStatus(http.StatusInternalServerError).
				WithTitle("Test Title"),
			testExtensions{Foo: "Foo", Bar: 42})

		body, err := details.JSONBody()

		require.NoError(t, err)
		assert.JSONEq(t, `{"status":500,"title":"Test Title","foo":"Foo","bar":42}`, string(body))

		var raw map[string]any
		require.NoError(t, json.Unmarshal(body, &raw))
		assert.NotContains(t, raw, "type")
		assert.NotContains(t, raw, "detail")
		assert.NotContains(t, raw, "instance")
		assert.NotContains(t, raw, "extensions")
	})

	t.Run("Map extensions should be flattened the same way", func(t *testing.T) {
		details := WithExtensions(New().WithTitle("Test Title"), Map{"foo": "Foo", "bar": 42})

		body, err := details.JSONBody()

		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Test Title","foo":"Foo","bar":42}`, string(body))
	})

	t.Run("Nil map extensions should contribute nothing", func(t *testing.T) {
		body, err := WithExtensions(New().WithTitle("Test Title"), Map(nil)).JSONBody()

		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Test Title"}`, string(body))
	})

	t.Run("Scalar extensions should be rejected", func(t *testing.T) {
		_, err := WithExtensions(New(), 42).JSONBody()

		require.Error(t, err)
		require.ErrorIs(t, err, ErrNotAnObject)
	})

	t.Run("Array extensions should be rejected", func(t *testing.T) {
		_, err := WithExtensions(New(), []string{"foo"}).JSONBody()

		require.Error(t, err)
		require.ErrorIs(t, err, ErrNotAnObject)
	})

	t.Run("Extension members shadowing reserved members should be rejected", func(t *testing.T) {
		_, err := WithExtensions(New().WithTitle("real"), Map{"title": "shadow"}).JSONBody()

		require.Error(t, err)
		require.ErrorIs(t, err, ErrReservedExtension)

		var encodeErr *EncodeError
		require.ErrorAs(t, err, &encodeErr)
		require.Equal(t, "title", encodeErr.Field)
	})
}

func TestUnmarshalJSON_decode(t *testing.T) {
	t.Run("Empty object should decode to the empty value", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		require.NoError(t, json.Unmarshal([]byte(`{}`), &details))

		require.Equal(t, New(), details)
	})

	t.Run("Filled object should decode every member", func(t *testing.T) {
		var details ProblemDetails[testExtensions]
		require.NoError(t, json.Unmarshal([]byte(`{
			"type": "test:type",
			"status": 500,
			"title": "Test Title",
			"detail": "Test Detail",
			"instance": "test:instance",
			"foo": "Foo",
			"bar": 42
		}`), &details))

		expected := WithExtensions(
			New().
				WithType(MustProblemType("test:type")).
				WithStatus(http.StatusInternalServerError).
				WithTitle("Test Title").
				WithDetail("Test Detail").
				WithInstance(MustProblemType("test:instance").URI()),
			testExtensions{Foo: "Foo", Bar: 42})
		require.Equal(t, expected, details)
	})

	t.Run("Encoding then decoding should give back the original", func(t *testing.T) {
		original := WithExtensions(
			New().
				WithType(MustProblemType("test:type")).
				WithStatus(http.StatusInternalServerError).
				WithTitle("Test Title").
				WithDetail("Test Detail").
				WithInstance(MustProblemType("test:instance").URI()),
			testExtensions{Foo: "Foo", Bar: 42})

		body, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded ProblemDetails[testExtensions]
		require.NoError(t, json.Unmarshal(body, &decoded))

		require.Equal(t, original, decoded)
	})

	t.Run("Absent members should stay unset without error", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		require.NoError(t, json.Unmarshal([]byte(`{"status":404}`), &details))

		require.Equal(t, http.StatusNotFound, details.Status)
		require.True(t, details.Type.IsZero())
		require.Empty(t, details.Title)
		require.Empty(t, details.Detail)
		require.Nil(t, details.Instance)
	})

	t.Run("Explicit null should decode as absent", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		require.NoError(t, json.Unmarshal([]byte(`{"type":null,"status":null,"title":null}`), &details))

		require.Equal(t, New(), details)
	})

	t.Run("Status out of range should fail with the offending value", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		err := json.Unmarshal([]byte(`{"status":700}`), &details)

		require.Error(t, err)
		require.ErrorIs(t, err, ErrInvalidStatus)

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		require.Equal(t, "status", decodeErr.Field)
		require.Equal(t, "700", decodeErr.Value)
	})

	t.Run("Status below 100 should fail", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		require.ErrorIs(t, json.Unmarshal([]byte(`{"status":99}`), &details), ErrInvalidStatus)
	})

	t.Run("Non-integer status should fail", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		require.ErrorIs(t, json.Unmarshal([]byte(`{"status":404.5}`), &details), ErrInvalidStatus)
	})

	t.Run("String status should fail", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		require.ErrorIs(t, json.Unmarshal([]byte(`{"status":"404"}`), &details), ErrInvalidStatus)
	})

	t.Run("Negative status should fail", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		require.ErrorIs(t, json.Unmarshal([]byte(`{"status":-404}`), &details), ErrInvalidStatus)
	})

	t.Run("Malformed type should fail with the offending string", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		err := json.Unmarshal([]byte(`{"type":"not a uri\u0000"}`), &details)

		require.Error(t, err)
		require.ErrorIs(t, err, ErrInvalidURI)

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		require.Equal(t, "type", decodeErr.Field)
	})

	t.Run("Malformed instance should fail the same way", func(t *testing.T) {
		var details ProblemDetails[NoExtensions]
		err := json.Unmarshal([]byte(`{"instance":"not a uri\u0000"}`), &details)

		require.ErrorIs(t, err, ErrInvalidURI)

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		require.Equal(t, "instance", decodeErr.Field)
	})

	t.Run("Keys not claimed by the extension type should be ignored", func(t *testing.T) {
		var details ProblemDetails[testExtensions]
		require.NoError(t, json.Unmarshal([]byte(`{"title":"Test Title","foo":"Foo","unclaimed":true}`), &details))

		require.Equal(t, "Test Title", details.Title)
		require.Equal(t, "Foo", details.Extensions.Foo)
	})

	t.Run("Map extensions should collect the remaining keys", func(t *testing.T) {
		var details ProblemDetails[Map]
		require.NoError(t, json.Unmarshal([]byte(`{"status":403,"balance":30}`), &details))

		require.Equal(t, http.StatusForbidden, details.Status)
		require.Equal(t, float64(30), details.Extensions["balance"])
		require.NotContains(t, details.Extensions, "status")
	})
}

func TestContentTypeJSON(t *testing.T) {
	require.Equal(t, "application/problem+json", ContentTypeJSON)
}
