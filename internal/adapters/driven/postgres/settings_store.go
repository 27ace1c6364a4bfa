package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore implements driven.SettingsStore using PostgreSQL.
// Settings live in a single row; the embedding API key is sealed with
// the encryptor before it is written.
type SettingsStore struct {
	db        *DB
	encryptor *SecretEncryptor
}

// NewSettingsStore creates a new SettingsStore
func NewSettingsStore(db *DB, encryptor *SecretEncryptor) *SettingsStore {
	return &SettingsStore{db: db, encryptor: encryptor}
}

// GetAISettings retrieves the AI settings.
// Returns empty settings if none have been saved yet.
func (s *SettingsStore) GetAISettings(ctx context.Context) (*domain.AISettings, error) {
	query := `
		SELECT embedding_provider, embedding_model, embedding_api_key, embedding_base_url,
			   visual_model, visual_base_url, updated_at, updated_by
		FROM ai_settings
		WHERE id = 1
	`

	var settings domain.AISettings
	var embProvider, embModel, embBaseURL sql.NullString
	var visModel, visBaseURL, updatedBy sql.NullString
	var sealedKey []byte

	err := s.db.QueryRowContext(ctx, query).Scan(
		&embProvider,
		&embModel,
		&sealedKey,
		&embBaseURL,
		&visModel,
		&visBaseURL,
		&settings.UpdatedAt,
		&updatedBy,
	)
	if err == sql.ErrNoRows {
		// Nothing configured yet
		return &domain.AISettings{}, nil
	}
	if err != nil {
		return nil, err
	}

	settings.Embedding.Provider = domain.AIProvider(embProvider.String)
	settings.Embedding.Model = embModel.String
	settings.Embedding.BaseURL = embBaseURL.String
	settings.Visual.Model = visModel.String
	settings.Visual.BaseURL = visBaseURL.String
	settings.UpdatedBy = updatedBy.String

	if len(sealedKey) > 0 {
		apiKey, err := s.encryptor.DecryptString(sealedKey)
		if err != nil {
			return nil, fmt.Errorf("decrypt embedding api key: %w", err)
		}
		settings.Embedding.APIKey = apiKey
	}

	return &settings, nil
}

// SaveAISettings persists AI settings. API keys are encrypted at rest.
func (s *SettingsStore) SaveAISettings(ctx context.Context, settings *domain.AISettings) error {
	var sealedKey []byte
	if settings.Embedding.APIKey != "" {
		var err error
		sealedKey, err = s.encryptor.EncryptString(settings.Embedding.APIKey)
		if err != nil {
			return fmt.Errorf("encrypt embedding api key: %w", err)
		}
	}

	settings.UpdatedAt = time.Now()

	query := `
		INSERT INTO ai_settings (id, embedding_provider, embedding_model, embedding_api_key, embedding_base_url,
								 visual_model, visual_base_url, updated_at, updated_by)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			embedding_provider = EXCLUDED.embedding_provider,
			embedding_model = EXCLUDED.embedding_model,
			embedding_api_key = EXCLUDED.embedding_api_key,
			embedding_base_url = EXCLUDED.embedding_base_url,
			visual_model = EXCLUDED.visual_model,
			visual_base_url = EXCLUDED.visual_base_url,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`

	_, err := s.db.ExecContext(ctx, query,
		string(settings.Embedding.Provider),
		settings.Embedding.Model,
		sealedKey,
		settings.Embedding.BaseURL,
		settings.Visual.Model,
		settings.Visual.BaseURL,
		settings.UpdatedAt,
		settings.UpdatedBy,
	)
	return err
}
