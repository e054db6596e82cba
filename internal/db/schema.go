package db

// Constraint names are part of the contract with internal/store, which maps
// violations back to domain errors. SQLite reports UNIQUE failures by column
// list instead of name, so keep the column order stable too.

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  CONSTRAINT unique_username UNIQUE (username)
);

CREATE TABLE IF NOT EXISTS topics (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  CONSTRAINT unique_topic_per_user UNIQUE (user_id, title)
);

CREATE TABLE IF NOT EXISTS question_sets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  topic_id INTEGER NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
  description TEXT NOT NULL,
  CONSTRAINT unique_description_per_topic UNIQUE (topic_id, description)
);

CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type TEXT NOT NULL,
  description TEXT NOT NULL,
  question_order INTEGER NOT NULL,
  question_set_id INTEGER NOT NULL REFERENCES question_sets(id) ON DELETE CASCADE,
  CONSTRAINT unique_description_per_set UNIQUE (question_set_id, description),
  CONSTRAINT unique_order_per_set UNIQUE (question_set_id, question_order)
);

CREATE TABLE IF NOT EXISTS mcq_questions (
  id INTEGER PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
  choice_one TEXT NOT NULL,
  choice_two TEXT NOT NULL,
  choice_three TEXT NOT NULL,
  choice_four TEXT NOT NULL,
  correct_answer INTEGER NOT NULL,
  CONSTRAINT answer_in_range CHECK (correct_answer BETWEEN 0 AND 3),
  CONSTRAINT unique_multiple_choices CHECK (
    choice_one <> choice_two AND choice_one <> choice_three AND choice_one <> choice_four AND
    choice_two <> choice_three AND choice_two <> choice_four AND choice_three <> choice_four)
);

CREATE TABLE IF NOT EXISTS true_false_questions (
  id INTEGER PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
  correct_answer BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS math_questions (
  id INTEGER PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
  correct_answer REAL NOT NULL,
  units TEXT,
  units_given BOOLEAN,
  accuracy TEXT NOT NULL CHECK (accuracy IN ('exact', 'uncertainty', 'percentage')),
  accuracy_degree REAL,
  CONSTRAINT both_unit_columns_or_neither CHECK ((units IS NULL) = (units_given IS NULL)),
  CONSTRAINT accuracy_degree_must_be_specified_if_not_exact CHECK ((accuracy = 'exact') = (accuracy_degree IS NULL))
);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  CONSTRAINT unique_username UNIQUE (username)
);

CREATE TABLE IF NOT EXISTS topics (
  id BIGSERIAL PRIMARY KEY,
  user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  CONSTRAINT unique_topic_per_user UNIQUE (user_id, title)
);

CREATE TABLE IF NOT EXISTS question_sets (
  id BIGSERIAL PRIMARY KEY,
  topic_id BIGINT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
  description TEXT NOT NULL,
  CONSTRAINT unique_description_per_topic UNIQUE (topic_id, description)
);

CREATE TABLE IF NOT EXISTS questions (
  id BIGSERIAL PRIMARY KEY,
  type TEXT NOT NULL,
  description TEXT NOT NULL,
  question_order INTEGER NOT NULL,
  question_set_id BIGINT NOT NULL REFERENCES question_sets(id) ON DELETE CASCADE,
  CONSTRAINT unique_description_per_set UNIQUE (question_set_id, description),
  CONSTRAINT unique_order_per_set UNIQUE (question_set_id, question_order) DEFERRABLE INITIALLY IMMEDIATE
);

CREATE TABLE IF NOT EXISTS mcq_questions (
  id BIGINT PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
  choice_one TEXT NOT NULL,
  choice_two TEXT NOT NULL,
  choice_three TEXT NOT NULL,
  choice_four TEXT NOT NULL,
  correct_answer INTEGER NOT NULL,
  CONSTRAINT answer_in_range CHECK (correct_answer BETWEEN 0 AND 3),
  CONSTRAINT unique_multiple_choices CHECK (
    choice_one <> choice_two AND choice_one <> choice_three AND choice_one <> choice_four AND
    choice_two <> choice_three AND choice_two <> choice_four AND choice_three <> choice_four)
);

CREATE TABLE IF NOT EXISTS true_false_questions (
  id BIGINT PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
  correct_answer BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS math_questions (
  id BIGINT PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
  correct_answer DOUBLE PRECISION NOT NULL,
  units TEXT,
  units_given BOOLEAN,
  accuracy TEXT NOT NULL CHECK (accuracy IN ('exact', 'uncertainty', 'percentage')),
  accuracy_degree DOUBLE PRECISION,
  CONSTRAINT both_unit_columns_or_neither CHECK ((units IS NULL) = (units_given IS NULL)),
  CONSTRAINT accuracy_degree_must_be_specified_if_not_exact CHECK ((accuracy = 'exact') = (accuracy_degree IS NULL))
);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
