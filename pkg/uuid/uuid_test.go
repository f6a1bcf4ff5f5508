// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package uuid_test

import (
	"testing"

	"github.com/absmach/weather-bridge/pkg/uuid"
	gofrsuuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	idp := uuid.New()

	first, err := idp.ID()
	require.NoError(t, err)
	second, err := idp.ID()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	parsed, err := gofrsuuid.FromString(first)
	require.NoError(t, err)
	assert.Equal(t, byte(gofrsuuid.V4), parsed.Version())
}

func TestMockID(t *testing.T) {
	idp := uuid.NewMock()

	for _, want := range []string{uuid.Prefix + "000000000001", uuid.Prefix + "000000000002"} {
		id, err := idp.ID()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
}
