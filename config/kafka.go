package config

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	BootstrapServers string
	SecurityProtocol string
	SASLMechanism    string
	SASLUsername     string
	SASLPassword     string
	Topic            string
	CompressionType  string
	Acks             string
	MaxInFlight      int
	LingerMS         int
	BatchSize        int
}

// NewKafkaConfig creates a new Kafka configuration from environment variables
func NewKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		BootstrapServers: getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092"),
		SecurityProtocol: getEnv("KAFKA_SECURITY_PROTOCOL", "PLAINTEXT"),
		SASLMechanism:    getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
		SASLUsername:     getEnv("KAFKA_SASL_USERNAME", ""),
		SASLPassword:     getEnv("KAFKA_SASL_PASSWORD", ""),
		Topic:            getEnv("KAFKA_TOPIC", "site-safety-scores"),
		CompressionType:  getEnv("KAFKA_COMPRESSION_TYPE", "snappy"),
		Acks:             getEnv("KAFKA_ACKS", "all"),
		MaxInFlight:      getEnvInt("KAFKA_MAX_IN_FLIGHT", 5),
		LingerMS:         getEnvInt("KAFKA_LINGER_MS", 10),
		BatchSize:        getEnvInt("KAFKA_BATCH_SIZE", 16384),
	}
}

// UsesSASL reports whether SASL credentials should be sent to the brokers
func (c *KafkaConfig) UsesSASL() bool {
	return c.SecurityProtocol == "SASL_SSL" || c.SecurityProtocol == "SASL_PLAINTEXT"
}
