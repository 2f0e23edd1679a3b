package storage

const schema = `
-- The 'cards' table stores every deck, one row per card, keyed by deck key.
CREATE TABLE IF NOT EXISTS cards (
    deck_key TEXT NOT NULL,
    position INTEGER NOT NULL,
    id TEXT NOT NULL,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    tag TEXT,                -- NULL when the card has no tag
    level INTEGER NOT NULL,
    due TEXT NOT NULL,       -- dueISO

    PRIMARY KEY (deck_key, id)
);

-- The 'reviews' table is an append-only log of ratings.
CREATE TABLE IF NOT EXISTS reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    deck_key TEXT NOT NULL,
    card_id TEXT NOT NULL,
    quality TEXT NOT NULL,
    level INTEGER NOT NULL,
    reviewed_at TEXT NOT NULL
);
`
