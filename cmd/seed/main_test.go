package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"bookstore/internal/book"
	"bookstore/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_SkipsExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), sampleBooks[0]).Return(book.Book{}, book.ErrDuplicateKey),
		repo.EXPECT().Create(gomock.Any(), sampleBooks[1]).Return(sampleBooks[1], nil),
		repo.EXPECT().Create(gomock.Any(), sampleBooks[2]).Return(sampleBooks[2], nil),
	)

	n, err := seed(context.Background(), repo, sampleBooks, logger)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSeed_StopsOnStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo.EXPECT().Create(gomock.Any(), sampleBooks[0]).Return(book.Book{}, errors.New("db down"))

	n, err := seed(context.Background(), repo, sampleBooks, logger)

	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestSampleBooks_PassCreateSchema(t *testing.T) {
	for _, b := range sampleBooks {
		assert.NoError(t, book.CheckCreate(b), b.ISBN)
	}
}

func TestSeed_RejectsInvalidBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	bad := sampleBooks[0]
	bad.Pages = 0

	n, err := seed(context.Background(), repo, []book.Book{bad}, logger)

	require.Error(t, err)
	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"pages must be greater than 0"}, verr.Messages)
	assert.Zero(t, n)
}
