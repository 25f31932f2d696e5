package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGSERIAL PRIMARY KEY,
    order_id BIGINT NOT NULL UNIQUE,
    order_number TEXT NOT NULL DEFAULT '',
    date_created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    status TEXT NOT NULL DEFAULT '',
    customer_first_name TEXT NOT NULL DEFAULT '',
    customer_last_name TEXT NOT NULL DEFAULT '',
    customer_email TEXT NOT NULL DEFAULT '',
    customer_phone TEXT NOT NULL DEFAULT '',
    total TEXT NOT NULL DEFAULT '0',
    payment_method TEXT NOT NULL DEFAULT '',
    payment_method_title TEXT NOT NULL DEFAULT '',
    products JSONB NOT NULL DEFAULT '[]',
    payment_status TEXT NOT NULL DEFAULT 'paid',
    has_installments BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_orders_date_created ON orders (date_created DESC);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);

CREATE TABLE IF NOT EXISTS products (
    id BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS program_registrations (
    id BIGSERIAL PRIMARY KEY,
    program_name TEXT NOT NULL,
    player_name TEXT NOT NULL,
    player_email TEXT NOT NULL DEFAULT '',
    player_phone TEXT NOT NULL DEFAULT '',
    order_id BIGINT,
    source TEXT NOT NULL DEFAULT 'manual',
    payment_method TEXT NOT NULL DEFAULT '',
    payment_status TEXT NOT NULL DEFAULT 'paid',
    amount TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'active',
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_registrations_program ON program_registrations (program_name);
CREATE INDEX IF NOT EXISTS idx_registrations_order_program ON program_registrations (order_id, program_name);

CREATE TABLE IF NOT EXISTS program_settings (
    id BIGSERIAL PRIMARY KEY,
    program_name TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'open_registration',
    display_order INT NOT NULL DEFAULT 0,
    start_date DATE,
    notes TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS program_colors (
    id BIGSERIAL PRIMARY KEY,
    program_name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS email_templates (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    template_html TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_installments (
    id BIGSERIAL PRIMARY KEY,
    order_id BIGINT NOT NULL,
    installment_number INT NOT NULL,
    amount_due TEXT NOT NULL,
    amount_paid TEXT NOT NULL DEFAULT '0',
    due_date DATE,
    paid_date DATE,
    status TEXT NOT NULL DEFAULT 'pending',
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_installments_order ON order_installments (order_id, installment_number);

CREATE TABLE IF NOT EXISTS customer_credits (
    id BIGSERIAL PRIMARY KEY,
    player_name TEXT NOT NULL,
    player_email TEXT NOT NULL DEFAULT '',
    amount NUMERIC(10,2) NOT NULL,
    reason TEXT NOT NULL,
    created_by TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    used_by TEXT,
    used_at TIMESTAMPTZ,
    used_on_program TEXT,
    notes TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
