package impl

import (
	"context"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"unicode"

	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	domainerrors "majicmall/internal/domain/errors"
	"majicmall/internal/domain/repository"
	"majicmall/internal/domain/service"
	"majicmall/internal/errors"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const maxSlugAttempts = 1000

// slugify lowercases s, drops accents and punctuation, and joins words with hyphens.
func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(unicode.ToLower(r))
		case r == '_':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}

	return b.String()
}

// uniqueSlug returns base, or base-2, base-3 ... until exists reports it free.
func uniqueSlug(ctx context.Context, base, fallback string, exists func(context.Context, string) (bool, error)) (string, error) {
	base = slugify(base)
	if base == "" {
		base = fallback
	}

	candidate := base
	for n := 2; n < maxSlugAttempts; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}

	return "", domainerrors.ErrSlugTaken.WrapMessage("no free slug for " + base)
}

func uniqueStoreSlug(ctx context.Context, storeRepo repository.StoreRepository, base string, excludeID uint) (string, error) {
	return uniqueSlug(ctx, base, "store", func(ctx context.Context, slug string) (bool, error) {
		return storeRepo.SlugExists(ctx, slug, excludeID)
	})
}

func uniqueProfileSlug(ctx context.Context, profileRepo repository.MerchantProfileRepository, base string) (string, error) {
	return uniqueSlug(ctx, base, "merchant", profileRepo.ProfileSlugExists)
}

// mediaKey builds a unique blob key under prefix keeping the upload's extension.
func mediaKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}

	return prefix + "/" + uuid.NewString() + ext
}

func validateImageUpload(data []byte, contentType string, maxSize int64) error {
	if len(data) == 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("image is empty")
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return domainerrors.ErrValidationFailed.WrapMessage("image is too large")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return domainerrors.ErrValidationFailed.WrapMessage("only image uploads are accepted")
	}

	return nil
}

// mapStoreNotFound converts the repository sentinel into the user-facing error.
func mapStoreNotFound(err error, msg string) error {
	if errors.Is(err, repository.ErrStoreNotFound) {
		return domainerrors.ErrStoreNotFound.WrapMessage(msg)
	}

	return errors.Wrap(err, msg)
}

// publish sends a domain event after commit. Failures are logged and swallowed.
func publish(ctx context.Context, logger *slog.Logger, publisher service.EventPublisher, event *service.DomainEvent) {
	if publisher == nil || event == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish domain event",
			slog.String("type", event.Type),
			slog.Uint64("storeID", uint64(event.StoreID)),
			slog.Any("error", err))
	}
}

// requireActiveStore rejects operations on a missing or archived store.
func requireActiveStore(store *entity.Store) error {
	if store == nil {
		return domainerrors.ErrStoreRequired.WrapMessage("no active store")
	}
	if store.IsArchived {
		return domainerrors.ErrStoreArchived.WrapMessage("store " + store.Slug + " is archived")
	}

	return nil
}
