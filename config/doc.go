// Package config reads the logging configuration document.
//
// The document has a single configuration root holding appender, logger
// and root elements:
//
//	<configuration>
//	  <appender name="FILE" class="file">
//	    <maxFiles>3</maxFiles>
//	    <encoder>
//	      <pattern>%date [%level] %logger: %message</pattern>
//	    </encoder>
//	  </appender>
//	  <logger name="net" level="INFO">
//	    <appender-ref ref="FILE" />
//	  </logger>
//	  <root level="WARN">
//	    <appender-ref ref="FILE" />
//	  </root>
//	</configuration>
//
// Parse walks the document once, front to back. Appenders are built as
// soon as their element closes, so a reference only resolves against
// appenders declared before it. Unsupported elements are skipped together
// with their content and reported to the status logger.
package config
