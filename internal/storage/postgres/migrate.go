package postgres

// Migrate creates the schemas, entities and entity_relationships tables if
// they do not exist. Uniqueness invariants (schema name, relationship
// triple) live here as constraints so concurrent writers cannot race past
// an application-level existence check.
func (c *Client) Migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schemas (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			fields JSONB NOT NULL DEFAULT '[]',
			relationships JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS entities (
			id TEXT PRIMARY KEY,
			entity_type TEXT NOT NULL,
			name TEXT,
			data JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS entity_relationships (
			id TEXT PRIMARY KEY,
			from_entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
			to_entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
			relationship_type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (from_entity_id, to_entity_id, relationship_type)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type);`,
		`CREATE INDEX IF NOT EXISTS idx_entities_type_name ON entities(entity_type, name);`,
		`CREATE INDEX IF NOT EXISTS idx_relationships_from ON entity_relationships(from_entity_id, relationship_type);`,
		`CREATE INDEX IF NOT EXISTS idx_relationships_to ON entity_relationships(to_entity_id, relationship_type);`,
	}

	for _, stmt := range statements {
		if _, err := c.DB.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
